package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core/student"
)

type studentApi struct {
	deps *Deps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := studentApi{deps: deps}

	sg := g.Group("/student", jwt)
	sg.POST("/add", api.create, policyMiddleware(auth, opStudentAdd))
	sg.GET("/list", api.query, policyMiddleware(auth, opStudentList))
	sg.PUT("/update/:id", api.update, policyMiddleware(auth, opStudentUpdate))
	sg.DELETE("/delete/:id", api.destroy, policyMiddleware(auth, opStudentDelete))
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.deps.Validate, api.deps.StudentSvc); err != nil {
		return err
	}

	std, err := api.deps.StudentSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return okData(ctx, http.StatusCreated, std, "Student added successfully")
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.ClassFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to ClassFilter")
	}
	filter.Clean()

	students, err := api.deps.StudentSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, studentsResponse{Success: true, Students: students})
}

func (api *studentApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	std, err := api.deps.StudentSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(reqCtx, std, api.deps.Validate, api.deps.StudentSvc); err != nil {
		return err
	}

	std, err = api.deps.StudentSvc.Update(reqCtx, std.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return okData(ctx, http.StatusOK, std, "Student updated successfully")
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.deps.StudentSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ok(ctx, http.StatusOK, "Student deleted successfully")
}

type studentsResponse struct {
	Success  bool              `json:"success"`
	Students []student.Student `json:"students"`
}
