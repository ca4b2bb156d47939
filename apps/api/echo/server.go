package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/notify"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

type (
	// Deps holds everything the API handlers need.
	Deps struct {
		Logger        core.Logger
		Metrics       *Metrics
		UserSvc       user.ServiceInterface
		StudentSvc    student.ServiceInterface
		AttendanceSvc attendance.ServiceInterface
		NotifySvc     notify.ServiceInterface
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server struct {
		conf     *core.Config
		deps     *Deps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

// NewServer builds the API server. shutdown receives OS signals and is also
// used by the server itself to request a graceful shutdown; a buffered channel
// is created when it is nil.
func NewServer(conf *core.Config, shutdown chan os.Signal, deps *Deps) *Server {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	s := &Server{
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(conf, deps.UserSvc),
		errors:   make(chan error, 1),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.deps.Metrics.middleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.auth, s.SignalShutdown)

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(s.auth.jwtConfig)

	registerUserAPI(g, jwt, s.auth, s.deps)
	registerStudentAPI(g, jwt, s.auth, s.deps)
	registerAttendanceAPI(g, jwt, s.auth, s.deps)
}

// Start blocks until the server stops; failures are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks for a graceful shutdown without blocking.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}

// Responses

type (
	messageResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	dataResponse struct {
		Success bool        `json:"success"`
		Message string      `json:"message,omitempty"`
		Data    interface{} `json:"data"`
	}
)

func ok(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, messageResponse{Success: true, Message: message})
}

func okData(ctx echo.Context, code int, data interface{}, message ...string) error {
	res := dataResponse{Success: true, Data: data}
	if len(message) > 0 {
		res.Message = message[0]
	}
	return ctx.JSON(code, res)
}
