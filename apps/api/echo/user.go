package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

var errNoPermsToSetRole = "not enough rights to set this role"

type userApi struct {
	auth *authenticator
	deps *Deps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *authenticator, deps *Deps) {
	api := userApi{auth: auth, deps: deps}

	ug := g.Group("/user")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/register", api.create, policyMiddleware(auth, opUserRegister))
	ag.GET("/list", api.query, policyMiddleware(auth, opUserList))
	ag.GET("/roles", api.queryRoles, policyMiddleware(auth, opUserList))
	ag.PUT("/update/:id", api.update, policyMiddleware(auth, opUserUpdate))
	ag.DELETE("/delete/:id", api.destroy, policyMiddleware(auth, opUserDelete))
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(ctx.Request().Context(), api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	// ctxUser cannot set a role > their own role
	ctxUsr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if user.RolePriority(data.Role) > user.RolePriority(ctxUsr.Role) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}

	usr, err := api.deps.UserSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return okData(ctx, http.StatusCreated, usr, "User registered successfully")
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, claims, err := api.auth.authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.auth.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Token: token, User: &usr})
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Success: true, Token: token})
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return okData(ctx, http.StatusOK, []user.User{})
	}
	filter.Clean()

	users, err := api.deps.UserSvc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return okData(ctx, http.StatusOK, users)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return okData(ctx, http.StatusOK, user.Roles)
}

func (api *userApi) update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, err := api.deps.UserSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := data.Validate(reqCtx, usr, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	ctxUsr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if user.RolePriority(data.Role) > user.RolePriority(ctxUsr.Role) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}
	// an admin cannot lock themselves out
	if usr.ID == ctxUsr.ID && (data.Role != usr.Role || (data.IsActive != nil && !*data.IsActive)) {
		return errHttpForbidden
	}

	usr, err = api.deps.UserSvc.Update(reqCtx, usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return okData(ctx, http.StatusOK, usr, "User updated successfully")
}

func (api *userApi) destroy(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, err := api.deps.UserSvc.GetByID(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	// ctxUser cannot delete themselves
	ctxUsr, err := api.auth.getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.ID == ctxUsr.ID {
		return errHttpForbidden
	}

	if err := api.deps.UserSvc.Delete(reqCtx, usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ok(ctx, http.StatusOK, "User deleted successfully")
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Success bool       `json:"success"`
		Token   string     `json:"token"`
		User    *user.User `json:"user,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
