package di

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/Rashad2003/Student-Attendance-Management/apps/api/echo"
	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/notify"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
	emailsvc "github.com/Rashad2003/Student-Attendance-Management/services/email"
	logsvc "github.com/Rashad2003/Student-Attendance-Management/services/logger"
	smssvc "github.com/Rashad2003/Student-Attendance-Management/services/sms"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database"
	inmemdb "github.com/Rashad2003/Student-Attendance-Management/storage/database/inmem"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database/mongodb"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// DBCloser releases the storage engine.
	DBCloser func(ctx context.Context) error

	Storage struct {
		dig.Out
		UserRepo       user.Repository
		StudentRepo    student.Repository
		AttendanceRepo attendance.Repository
		Close          DBCloser
	}

	ServerParam struct {
		dig.In
		Conf          *core.Config
		Logger        core.Logger
		Metrics       *echoapi.Metrics
		UserSvc       user.ServiceInterface
		StudentSvc    student.ServiceInterface
		AttendanceSvc attendance.ServiceInterface
		NotifySvc     notify.ServiceInterface
		Validate      *validator.Validate
		Translator    ut.Translator
	}
)

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(os.Stdout, "API", conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(os.Stdout, "DB", conf)
	logger.Enable(!conf.Debug)
	return logger
}

// NewStorage opens the storage engine selected by database.engine.
func NewStorage(conf *core.Config, loggerParam DBLoggerParam) (Storage, error) {
	logger := loggerParam.Logger

	switch conf.Database.Engine {
	case core.EngineMemory:
		logger.Warn("using the in-memory storage engine: data is lost on exit")
		db := inmemdb.Open()
		return Storage{
			UserRepo:       inmemdb.NewUserRepository(db),
			StudentRepo:    inmemdb.NewStudentRepository(db),
			AttendanceRepo: inmemdb.NewAttendanceRepository(db),
			Close:          func(context.Context) error { return nil },
		}, nil

	case core.EngineMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()

		db, err := database.Open(ctx, conf)
		if err != nil {
			return Storage{}, errors.Wrap(err, "opening database")
		}
		if err = database.EnsureIndexes(ctx, db); err != nil {
			return Storage{}, errors.Wrap(err, "creating indexes")
		}
		logger.Info(fmt.Sprintf("connected to database %q", conf.Database.Name))
		return Storage{
			UserRepo:       mongodb.NewUserRepository(db),
			StudentRepo:    mongodb.NewStudentRepository(db),
			AttendanceRepo: mongodb.NewAttendanceRepository(db),
			Close:          func(ctx context.Context) error { return database.Close(ctx, db) },
		}, nil
	}
	return Storage{}, errors.Errorf("unknown database engine %q", conf.Database.Engine)
}

func newValidator() *validator.Validate {
	return validator.New()
}

func newSMSService(conf *core.Config, logger core.Logger) core.SMSService {
	if conf.Debug {
		return smssvc.NewConsoleService(logger)
	}
	return smssvc.NewTwilioService(conf)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newAttendanceService(
	conf *core.Config,
	repo attendance.Repository,
	stdSvc student.ServiceInterface,
	metrics *echoapi.Metrics,
) attendance.ServiceInterface {
	return attendance.NewService(repo, stdSvc, attendance.Options{
		Periods:         conf.Attendance.Periods,
		MaxMergeRetries: conf.Attendance.MaxMergeRetries,
		OnConflict:      metrics.MergeConflicts.Inc,
	})
}

func newServer(p ServerParam) *echoapi.Server {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return echoapi.NewServer(p.Conf, shutdown, &echoapi.Deps{
		Logger:        p.Logger,
		Metrics:       p.Metrics,
		UserSvc:       p.UserSvc,
		StudentSvc:    p.StudentSvc,
		AttendanceSvc: p.AttendanceSvc,
		NotifySvc:     p.NotifySvc,
		Validate:      p.Validate,
		Translator:    p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(NewStorage))
	must(c.Provide(newSMSService))
	must(c.Provide(newEmailService))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(echoapi.NewMetrics))
	must(c.Provide(user.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(notify.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
