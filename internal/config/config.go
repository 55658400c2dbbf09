package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type (
	Config struct {
		HTTP
		Global
		Log
		Database
		UI
		Security
		Session
		Tasks
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		Env                      string // "development" shows error details on error pages
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver string // "sqlite" or "postgres"
		Path   string // sqlite file, also the base name of the tasks database
		URL    string // postgres DSN
	}
	UI struct {
		TemplatesPath string // overrides the embedded templates when set
		StaticPath    string
	}
	Security struct {
		CSRFSecret         string // gorilla/csrf is enabled only when set
		SecureCookies      bool
		RateLimitPerMinute int
	}
	Session struct {
		Lifetime time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration // stuck tasks go back to the queue after this
		CleanupInterval time.Duration
	}
	Audit struct {
		RetentionDays   int
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

// IsDevelopment reports whether the application runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Global.Env == EnvDevelopment
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_level", "info")

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "./public")

	// Security defaults
	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", true)
	v.SetDefault("rate_limit_per_minute", DefaultRateLimitPerMinute)
	v.SetDefault("session_lifetime", "24h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			Env:                      v.GetString("APP_ENV"),
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			URL:    v.GetString("DATABASE_URL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Security: Security{
			CSRFSecret:         v.GetString("CSRF_SECRET"),
			SecureCookies:      v.GetBool("SECURE_COOKIES"),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Session: Session{
			Lifetime: v.GetDuration("SESSION_LIFETIME"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
	}
}
