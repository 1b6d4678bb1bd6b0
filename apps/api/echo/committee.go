package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core/committee"
)

type committeeApi struct {
	svc committee.Service
}

func registerCommitteeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc committee.Service) {
	api := committeeApi{svc: svc}

	cg := g.Group("/committees", jwt)
	cg.POST("", api.create, adminMiddleware())
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple, adminMiddleware())
	cg.GET("/:code", api.retrieve)
	cg.POST("/:code/members", api.addMember, adminMiddleware())
	cg.POST("/:code/assignments", api.assignStudent, adminMiddleware())
	cg.PUT("/:code/schedule", api.schedule, adminMiddleware())
}

// Handlers

func (api *committeeApi) create(ctx echo.Context) error {
	var data committee.NewCommittee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCommittee")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	cmt, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating committee")
	}
	return ctx.JSON(http.StatusCreated, cmt)
}

func (api *committeeApi) query(ctx echo.Context) error {
	filter := new(committee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []committee.Committee{})
	}

	// students and lecturers only see their own committees
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsAdmin {
		filter.LecturerCode = claims.LecturerCode
		filter.StudentCode = claims.StudentCode
	}

	var cmts []committee.Committee
	if filter.IsEmpty() {
		cmts, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		cmts, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying committees")
	}
	if cmts == nil {
		cmts = []committee.Committee{}
	}
	return ctx.JSON(http.StatusOK, cmts)
}

func (api *committeeApi) retrieve(ctx echo.Context) error {
	cmt, err := api.svc.GetByCode(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		if errors.Cause(err) == committee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting committee")
	}
	return ctx.JSON(http.StatusOK, cmt)
}

func (api *committeeApi) addMember(ctx echo.Context) error {
	var data committee.Member
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Member")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cmt, err := api.svc.AddMember(ctx.Request().Context(), ctx.Param("code"), data)
	if err != nil {
		if errors.Cause(err) == committee.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, cmt)
}

func (api *committeeApi) assignStudent(ctx echo.Context) error {
	var data committee.Assignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Assignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cmt, err := api.svc.AssignStudent(ctx.Request().Context(), ctx.Param("code"), data)
	if err != nil {
		if errors.Cause(err) == committee.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, cmt)
}

func (api *committeeApi) schedule(ctx echo.Context) error {
	var data committee.ScheduleCommittee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleCommittee")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cmt, err := api.svc.Schedule(ctx.Request().Context(), ctx.Param("code"), data)
	if err != nil {
		if errors.Cause(err) == committee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "scheduling committee")
	}
	return ctx.JSON(http.StatusOK, cmt)
}

func (api *committeeApi) destroyMultiple(ctx echo.Context) error {
	var query struct {
		Codes []string `query:"code"`
	}
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding committee codes")
	}
	if query.Codes == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.Codes...); err != nil {
		return errors.Wrap(err, "deleting committees")
	}
	return ctx.NoContent(http.StatusNoContent)
}
