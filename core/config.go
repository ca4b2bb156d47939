package core

import (
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMongoDB = "mongodb"
	EngineMemory  = "memory"
)

type (
	ServerConfig struct {
		Host            string
		Port            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine  string
		URI     string
		Name    string
		Timeout time.Duration
	}

	AttendanceConfig struct {
		// Periods is the width of the period grid returned by attendance lookups.
		Periods         int
		MaxMergeRetries int
	}

	TwilioConfig struct {
		AccountSID string
		AuthToken  string
		From       string
	}

	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool
		WorkDir  string

		AppName                   string
		SecretKey                 string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration

		Server     ServerConfig
		Database   DatabaseConfig
		Attendance AttendanceConfig

		RollbarToken     string
		SendgridApiKey   string
		Twilio           TwilioConfig
		defaultFromEmail string
	}
)

// Address returns the address the API server listens on.
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DefaultFromEmail parses the configured sender address, falling back to a bare address.
func (c *Config) DefaultFromEmail() mail.Address {
	if addr, err := mail.ParseAddress(c.defaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Attendance")
	v.SetDefault("secretKey", "t9#kq2-v!b7w$zr0@x4ms^e8d1(hf6pyl3&nu5c)g")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", EngineMongoDB)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "attendance")
	v.SetDefault("database.timeout", 10*time.Second)

	v.SetDefault("attendance.periods", 8)
	v.SetDefault("attendance.maxMergeRetries", 5)

	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("twilio.accountSid", "")
	v.SetDefault("twilio.authToken", "")
	v.SetDefault("twilio.from", "")
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and environment variables.
// Environment variables are prefixed with the upper-cased env name, eg. `PROD_DATABASE_URI`.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "finding project root")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return fromViper(v, env, wd), nil
}

func fromViper(v *viper.Viper, env, wd string) *Config {
	return &Config{
		Env:      env,
		Build:    v.GetString("build"),
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		WorkDir:  wd,

		AppName:                   v.GetString("appName"),
		SecretKey:                 v.GetString("secretKey"),
		JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
		JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),

		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetString("server.port"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:  strings.ToLower(v.GetString("database.engine")),
			URI:     v.GetString("database.uri"),
			Name:    v.GetString("database.name"),
			Timeout: v.GetDuration("database.timeout"),
		},
		Attendance: AttendanceConfig{
			Periods:         v.GetInt("attendance.periods"),
			MaxMergeRetries: v.GetInt("attendance.maxMergeRetries"),
		},

		RollbarToken:   v.GetString("rollbarToken"),
		SendgridApiKey: v.GetString("sendgridApiKey"),
		Twilio: TwilioConfig{
			AccountSID: v.GetString("twilio.accountSid"),
			AuthToken:  v.GetString("twilio.authToken"),
			From:       v.GetString("twilio.from"),
		},
		defaultFromEmail: v.GetString("defaultFromEmail"),
	}
}

// NewTestConfig returns the default configuration in test mode, without reading the environment.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.Set("testMode", true)
	v.Set("database.engine", EngineMemory)
	wd, _ := os.Getwd()
	return fromViper(v, "TEST", wd)
}

// Getwd tries to find the project root, ie. the closest directory holding a go.mod.
// go test runs inside the package directory, so the working directory alone is not enough.
func Getwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir, nil
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			// no go.mod: a deployed binary runs from its own directory
			return wd, nil
		}
		currDir = newDir
	}
}
