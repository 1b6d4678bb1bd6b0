package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core/progress"
)

type progressApi struct {
	svc progress.Service
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc progress.Service) {
	api := progressApi{svc: svc}

	mg := g.Group("/milestones", jwt)
	mg.POST("", api.plan, staffMiddleware())
	mg.GET("", api.queryByTopic)
	mg.DELETE("", api.destroyMultiple, adminMiddleware())
	mg.GET("/completion", api.completion)
	mg.GET("/:id", api.retrieve)
	mg.PUT("/:id/complete", api.complete)
}

// Handlers

func (api *progressApi) plan(ctx echo.Context) error {
	var data progress.NewMilestone
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMilestone")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	m, err := api.svc.Plan(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "planning milestone")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *progressApi) queryByTopic(ctx echo.Context) error {
	topicCode := ctx.QueryParam("topic_code")
	milestones, err := api.svc.QueryByTopic(ctx.Request().Context(), topicCode)
	if err != nil {
		return errors.Wrap(err, "querying milestones")
	}
	if milestones == nil {
		milestones = []progress.Milestone{}
	}
	return ctx.JSON(http.StatusOK, milestones)
}

func (api *progressApi) completion(ctx echo.Context) error {
	topicCode := ctx.QueryParam("topic_code")
	percent, err := api.svc.Completion(ctx.Request().Context(), topicCode)
	if err != nil {
		return errors.Wrap(err, "computing completion")
	}
	return ctx.JSON(http.StatusOK, CompletionResponse{TopicCode: topicCode, Percent: percent})
}

func (api *progressApi) retrieve(ctx echo.Context) error {
	m, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == progress.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting milestone")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *progressApi) complete(ctx echo.Context) error {
	var data progress.CompleteMilestone
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteMilestone")
	}

	m, err := api.svc.Complete(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == progress.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *progressApi) destroyMultiple(ctx echo.Context) error {
	var query struct {
		IDs []string `query:"id"`
	}
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding milestone ids")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting milestones")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type CompletionResponse struct {
	TopicCode string `json:"topic_code"`
	Percent   int    `json:"percent"`
}
