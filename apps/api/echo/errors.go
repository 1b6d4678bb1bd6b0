package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/gradhub/thesisdesk/core"
	"github.com/gradhub/thesisdesk/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newHTTPErrorHandler translates the errors bubbling out of handlers into
// JSON responses. Validation failures, both validator.ValidationErrors and
// core.ValidationError, render as a field-to-message map at 400; anything
// unrecognized is a 500 that gets logged with the requesting user attached.
// signalShutdown stops the server when a core shutdown error surfaces.
func newHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch cause := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if cause == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = cause.Message
				break
			}
			if cause.Internal != nil {
				if herr, ok := cause.Internal.(*echo.HTTPError); ok {
					cause = herr
				}
			}
			code = cause.Code
			message = cause.Message
		case validator.ValidationErrors:
			fields := make(map[string]string, len(cause))
			for _, vErr := range cause {
				fields[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = fields
		case *core.ValidationError:
			if cause.Fields != nil {
				fields := make(map[string]string, len(cause.Fields))
				for _, fErr := range cause.Fields {
					fields[fErr.Field] = fErr.Error
				}
				message = fields
			} else {
				message = cause.Error()
			}
			code = http.StatusBadRequest
		default:
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Username = claims.Username
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // HEAD carries no body
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
