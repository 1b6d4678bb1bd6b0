package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/committee"
	"github.com/gradhub/thesisdesk/core/defense"
)

type defenseApi struct {
	committeeSvc committee.Service
}

func registerDefenseAPI(g *echo.Group, jwt echo.MiddlewareFunc, committeeSvc committee.Service) {
	api := defenseApi{committeeSvc: committeeSvc}

	dg := g.Group("/defenses", jwt)
	dg.GET("", api.queryByDate)
	dg.GET("/calendar", api.calendar)
}

// Handlers

// calendar responds with the month's grid cells plus every defense schedule
// projected for that month.
func (api *defenseApi) calendar(ctx echo.Context) error {
	now := defense.NowFunc()
	year, month, err := bindYearMonth(ctx, now)
	if err != nil {
		return err
	}

	schedules, err := api.project(ctx)
	if err != nil {
		return err
	}
	events := defense.EventsInMonth(schedules, year, month)

	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return ctx.JSON(http.StatusOK, CalendarResponse{
		Year:      year,
		Month:     int(month),
		Cells:     defense.MonthGrid(ref),
		Schedules: events,
	})
}

// queryByDate responds with the defense schedules of a single day.
func (api *defenseApi) queryByDate(ctx echo.Context) error {
	date := defense.NowFunc()
	if raw := ctx.QueryParam("date"); raw != "" {
		var err error
		if date, err = time.Parse("2006-01-02", raw); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date, expected YYYY-MM-DD"})
		}
	}

	schedules, err := api.project(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, defense.EventsOnDate(schedules, date))
}

// project fetches the caller's committee records and folds them into
// schedules. The caller's lecturer code (if any) resolves their role on
// each committee.
func (api *defenseApi) project(ctx echo.Context) ([]defense.DefenseSchedule, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}

	var filter committee.QueryFilter
	if !claims.IsAdmin {
		// students and lecturers only see their own sessions
		filter.LecturerCode = claims.LecturerCode
		filter.StudentCode = claims.StudentCode
	}

	records, err := api.committeeSvc.Records(ctx.Request().Context(), filter)
	if err != nil {
		return nil, errors.Wrap(err, "fetching committee records")
	}
	return defense.Project(records, claims.LecturerCode), nil
}

func bindYearMonth(ctx echo.Context, now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()

	if raw := ctx.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			return 0, 0, core.NewValidationError(nil, core.FieldError{Field: "year", Error: "invalid year"})
		}
		year = y
	}
	if raw := ctx.QueryParam("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, core.NewValidationError(nil, core.FieldError{Field: "month", Error: "invalid month, expected 1-12"})
		}
		month = time.Month(m)
	}
	return year, month, nil
}

type CalendarResponse struct {
	Year      int                       `json:"year"`
	Month     int                       `json:"month"`
	Cells     []*time.Time              `json:"cells"`
	Schedules []defense.DefenseSchedule `json:"schedules"`
}
