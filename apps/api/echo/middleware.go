package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

// Operations
const (
	opUserRegister    = "user.register"
	opUserList        = "user.list"
	opUserUpdate      = "user.update"
	opUserDelete      = "user.delete"
	opStudentAdd      = "student.add"
	opStudentList     = "student.list"
	opStudentUpdate   = "student.update"
	opStudentDelete   = "student.delete"
	opAttendanceMark  = "attendance.mark"
	opAttendanceView  = "attendance.view"
	opAttendanceFetch = "attendance.fetch"
	opReportClass     = "report.class"
	opReportStudent   = "report.student"
	opNotifyParent    = "notify.parent"
)

var (
	adminOnly    = []string{user.RoleAdmin}
	adminFaculty = []string{user.RoleAdmin, user.RoleFaculty}

	// policies lists the roles allowed to run each operation. Unlisted operations are denied.
	policies = map[string][]string{
		opUserRegister:    adminOnly,
		opUserList:        adminOnly,
		opUserUpdate:      adminOnly,
		opUserDelete:      adminOnly,
		opStudentAdd:      adminFaculty,
		opStudentList:     adminFaculty,
		opStudentUpdate:   adminOnly,
		opStudentDelete:   adminOnly,
		opAttendanceMark:  adminFaculty,
		opAttendanceView:  adminFaculty,
		opAttendanceFetch: adminFaculty,
		opReportClass:     adminFaculty,
		opReportStudent:   adminFaculty,
		opNotifyParent:    adminFaculty,
	}
)

func allowed(op, role string) bool {
	for _, r := range policies[op] {
		if r == role {
			return true
		}
	}
	return false
}

// policyMiddleware only lets through the roles allowed to run op.
func policyMiddleware(auth *authenticator, op string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := auth.getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if allowed(op, claims.Role) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
