package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/notify"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")

	errInvalidDate     = errors.New("Invalid or missing date")
	errMissingRequired = "Missing required fields"
	errInvalidInput    = "Invalid input"
)

type sentinel struct {
	err     error
	code    int
	message string
}

// sentinels maps domain errors to their HTTP rendering.
var sentinels = []sentinel{
	{user.ErrNotFound, http.StatusNotFound, "User not found"},
	{student.ErrNotFound, http.StatusNotFound, "Student not found"},
	{attendance.ErrNoRecord, http.StatusOK, "No record found"},
	{attendance.ErrNoStudents, http.StatusNotFound, "No students found for this class"},
	{notify.ErrNoPhone, http.StatusNotFound, "Student or phone number not found"},
	{user.ErrEmailExists, http.StatusBadRequest, user.ErrEmailExists.Error()},
	{student.ErrRegisterExists, http.StatusBadRequest, student.ErrRegisterExists.Error()},
}

// findSentinel compares by identity; the dynamic types of sentinels are comparable pointers.
func findSentinel(err error) (sentinel, bool) {
	for _, s := range sentinels {
		if err == s.err {
			return s, true
		}
	}
	return sentinel{}, false
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	auth *authenticator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		res := errorResponse{}

		cause := errors.Cause(err)
		if s, ok := findSentinel(cause); ok {
			code = s.code
			res.Message = s.message
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					res.Message = fmt.Sprint(origErr.Message)
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				res.Message = fmt.Sprint(origErr.Message)
			case validator.ValidationErrors:
				res.Message = errInvalidInput
				res.Errors = make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					res.Errors[vErr.Field()] = vErr.Translate(translator)
					if vErr.Tag() == "required" {
						res.Message = errMissingRequired
					}
				}
				code = http.StatusBadRequest
			case *core.ValidationError:
				res.Message = origErr.Error()
				if origErr.Err == nil {
					res.Message = errInvalidInput
				}
				if origErr.Fields != nil {
					res.Errors = make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						res.Errors[fErr.Field] = fErr.Error
					}
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				res.Message = cause.Error()

				var usr user.User
				if claims, cErr := auth.getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Email = claims.Email
					usr.Role = claims.Role
				}
				logger.Error(http.StatusText(code), err, map[string]interface{}{
					"method": ctx.Request().Method,
					"path":   ctx.Path(),
				}, usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
