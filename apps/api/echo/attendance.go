package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
)

type attendanceApi struct {
	auth *authenticator
	deps *Deps
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := attendanceApi{auth: auth, deps: deps}

	ag := g.Group("/attendance", jwt)
	ag.POST("/mark", api.mark, policyMiddleware(auth, opAttendanceMark))
	ag.GET("/view", api.lookup, policyMiddleware(auth, opAttendanceView))
	ag.GET("/fetch", api.lookup, policyMiddleware(auth, opAttendanceFetch))
	ag.GET("/report/class", api.classReport, policyMiddleware(auth, opReportClass))
	ag.GET("/report/student/:studentId", api.studentReport, policyMiddleware(auth, opReportStudent))
	ag.POST("/notify", api.notify, policyMiddleware(auth, opNotifyParent))
}

// parseDate reads a required date field.
func parseDate(field, value string) (time.Time, error) {
	date, err := core.ParseDate(value)
	if err != nil {
		return time.Time{}, core.NewValidationError(errInvalidDate, core.FieldError{
			Field: field,
			Error: field + " must be a date formatted as YYYY-MM-DD or an RFC 3339 timestamp",
		})
	}
	return date, nil
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkRequest")
	}
	date, err := parseDate("date", data.Date)
	if err != nil {
		return err
	}
	data.Key.Clean()
	if err := api.deps.Validate.Struct(data); err != nil {
		return err
	}

	claims, err := api.auth.getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	err = api.deps.AttendanceSvc.Mark(ctx.Request().Context(), attendance.Mark{
		Key:       data.Key,
		Date:      date,
		FacultyID: claims.Subject,
		Students:  data.Students,
	})
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ok(ctx, http.StatusOK, "Attendance saved/updated successfully.")
}

func (api *attendanceApi) lookup(ctx echo.Context) error {
	var query LookupQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to LookupQuery")
	}
	date, err := parseDate("date", query.Date)
	if err != nil {
		return err
	}
	query.Key.Clean()
	if err := api.deps.Validate.Struct(query); err != nil {
		return err
	}

	grid, err := api.deps.AttendanceSvc.Lookup(ctx.Request().Context(), query.Key, date)
	if err != nil {
		if errors.Cause(err) == attendance.ErrNoRecord {
			return ctx.JSON(http.StatusOK, messageResponse{Success: false, Message: "No record found"})
		}
		return errors.Wrap(err, "looking up attendance")
	}
	return ctx.JSON(http.StatusOK, gridResponse{Success: true, Students: grid})
}

func (api *attendanceApi) classReport(ctx echo.Context) error {
	var query ClassReportQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to ClassReportQuery")
	}
	query.Clean()
	if err := api.deps.Validate.Struct(query); err != nil {
		return err
	}
	from, err := parseDate("fromDate", query.FromDate)
	if err != nil {
		return err
	}
	to, err := parseDate("toDate", query.ToDate)
	if err != nil {
		return err
	}

	stats, err := api.deps.AttendanceSvc.ClassReport(ctx.Request().Context(), from, to, query.Filter())
	if err != nil {
		return errors.Wrap(err, "building class report")
	}
	return okData(ctx, http.StatusOK, stats)
}

func (api *attendanceApi) studentReport(ctx echo.Context) error {
	report, err := api.deps.AttendanceSvc.StudentReport(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "building student report")
	}
	return okData(ctx, http.StatusOK, report)
}

func (api *attendanceApi) notify(ctx echo.Context) error {
	var data NotifyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NotifyRequest")
	}
	data.StudentID = core.CleanString(data.StudentID)
	if err := api.deps.Validate.Struct(data); err != nil {
		return err
	}

	if err := api.deps.NotifySvc.NotifyParent(ctx.Request().Context(), data.StudentID, data.Message); err != nil {
		return errors.Wrap(err, "notifying parent")
	}
	return ok(ctx, http.StatusOK, "Message sent to parent")
}

type (
	MarkRequest struct {
		attendance.Key
		Date     string                   `json:"date"`
		Students []attendance.StudentMark `json:"students" validate:"required,dive"`
	}

	LookupQuery struct {
		attendance.Key
		Date string `query:"date"`
	}

	ClassReportQuery struct {
		FromDate   string `query:"fromDate" validate:"required,isodate"`
		ToDate     string `query:"toDate" validate:"required,isodate"`
		Department string `query:"department" validate:"required"`
		Year       string `query:"year" validate:"required"`
		Section    string `query:"section" validate:"required"`
	}

	NotifyRequest struct {
		StudentID string `json:"studentId" validate:"required"`
		Message   string `json:"message" validate:"required"`
	}

	gridResponse struct {
		Success  bool                     `json:"success"`
		Students []attendance.StudentGrid `json:"students"`
	}
)

func (q *ClassReportQuery) Clean() {
	q.FromDate = core.CleanString(q.FromDate)
	q.ToDate = core.CleanString(q.ToDate)
	q.Department = core.CleanString(q.Department)
	q.Year = core.CleanString(q.Year)
	q.Section = core.CleanString(q.Section)
}

func (q ClassReportQuery) Filter() student.ClassFilter {
	return student.ClassFilter{Department: q.Department, Year: q.Year, Section: q.Section}
}
