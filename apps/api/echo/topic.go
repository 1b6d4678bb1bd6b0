package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/topic"
)

type topicApi struct {
	svc topic.Service
}

func registerTopicAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc topic.Service) {
	api := topicApi{svc: svc}

	tg := g.Group("/topics", jwt)
	tg.POST("/register", api.register)
	tg.GET("", api.query)
	tg.DELETE("", api.destroyMultiple, adminMiddleware())
	tg.GET("/:code", api.retrieve)
	tg.PUT("/:code/approve", api.approve, staffMiddleware())
	tg.PUT("/:code/reject", api.reject, staffMiddleware())
}

// Handlers

func (api *topicApi) register(ctx echo.Context) error {
	var data topic.NewTopic
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTopic")
	}

	// a student can only register a topic for themselves
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin {
		if !claims.IsStudent || claims.StudentCode == "" {
			return errHttpForbidden
		}
		data.StudentCode = claims.StudentCode
	}

	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	t, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering topic")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *topicApi) query(ctx echo.Context) error {
	filter := new(topic.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []topic.Topic{})
	}

	// students only see their own topics; lecturers the ones they supervise
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin {
		filter.StudentCode = claims.StudentCode
		filter.SupervisorCode = claims.LecturerCode
	}

	var topics []topic.Topic
	if filter.IsEmpty() {
		topics, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		topics, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying topics")
	}
	if topics == nil {
		topics = []topic.Topic{}
	}
	return ctx.JSON(http.StatusOK, topics)
}

func (api *topicApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByCode(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		if errors.Cause(err) == topic.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting topic")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *topicApi) approve(ctx echo.Context) error {
	return api.decide(ctx, api.svc.Approve)
}

func (api *topicApi) reject(ctx echo.Context) error {
	return api.decide(ctx, api.svc.Reject)
}

func (api *topicApi) decide(
	ctx echo.Context,
	decideFn func(c context.Context, code string, d topic.TopicDecision) (topic.Topic, error),
) error {
	var data topic.TopicDecision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TopicDecision")
	}
	data.Note = core.CleanString(data.Note)

	// a lecturer can only decide on topics they supervise
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin {
		t, err := api.svc.GetByCode(ctx.Request().Context(), ctx.Param("code"))
		if err != nil {
			if errors.Cause(err) == topic.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "getting topic")
		}
		if t.SupervisorCode != claims.LecturerCode {
			return errHttpForbidden
		}
	}

	t, err := decideFn(ctx.Request().Context(), ctx.Param("code"), data)
	if err != nil {
		if errors.Cause(err) == topic.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *topicApi) destroyMultiple(ctx echo.Context) error {
	var query struct {
		Codes []string `query:"code"`
	}
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding topic codes")
	}
	if query.Codes == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.Codes...); err != nil {
		return errors.Wrap(err, "deleting topics")
	}
	return ctx.NoContent(http.StatusNoContent)
}
