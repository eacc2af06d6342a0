package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Complaints ComplaintsConfig `mapstructure:"complaints"`
	Kanban     KanbanConfig     `mapstructure:"kanban"`
	Events     EventsConfig     `mapstructure:"events"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// CacheConfig selects the status snapshot store: sqlite, redis or none.
type CacheConfig struct {
	Driver        string        `mapstructure:"driver"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	BasePath     string        `mapstructure:"base_path"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type ComplaintsConfig struct {
	DailyLimit      int           `mapstructure:"daily_limit"`
	LimitWindow     time.Duration `mapstructure:"limit_window"`
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	ResidentFeed    bool          `mapstructure:"resident_feed"`
}

type KanbanConfig struct {
	DefaultBoard string `mapstructure:"default_board"`
	AutoSync     bool   `mapstructure:"auto_sync"`
	TemplateFile string `mapstructure:"template_file"`
	SyncPageSize int    `mapstructure:"sync_page_size"`
	// WatchTemplate re-applies template_file on change while serving.
	WatchTemplate bool `mapstructure:"watch_template"`
}

// EventsConfig bridges board events to NATS when nats_url is set.
type EventsConfig struct {
	NATSURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	if err := loadDotEnv(logCtx); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile == "" && errors.As(err, &notFound):
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		case configFile != "" && errors.Is(err, os.ErrNotExist):
			logging.Warn(logCtx, "config file not found, fallback to defaults and env", slog.String("path", configFile))
		default:
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("cache_driver", cfg.Cache.Driver),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	switch strings.ToLower(c.Cache.Driver) {
	case "sqlite", "redis", "none", "":
	default:
		return errors.New("cache.driver must be sqlite, redis or none")
	}
	if strings.EqualFold(c.Cache.Driver, "redis") && strings.TrimSpace(c.Cache.RedisAddr) == "" {
		return errors.New("cache.redis_addr is required for the redis cache")
	}
	if c.Kanban.WatchTemplate && strings.TrimSpace(c.Kanban.TemplateFile) == "" {
		return errors.New("kanban.watch_template needs kanban.template_file")
	}
	if c.Complaints.DailyLimit <= 0 {
		return errors.New("complaints.daily_limit must be positive")
	}
	return nil
}

// loadDotEnv exports a local .env file, if any, before viper reads the
// environment. Variables that are already set win.
func loadDotEnv(ctx context.Context) error {
	path := strings.TrimSpace(os.Getenv("CQ_ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errs.Wrapf(err, "load env file %q", path)
	}
	logging.Info(ctx, "env file loaded", slog.String("path", path))
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "condoqueixas")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".data/condoqueixas.sqlite")
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "condoqueixas:")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.base_path", "/v1")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("complaints.daily_limit", 5)
	v.SetDefault("complaints.limit_window", 24*time.Hour)
	v.SetDefault("complaints.default_page_size", 10)
	v.SetDefault("complaints.max_page_size", 100)
	v.SetDefault("complaints.resident_feed", true)
	v.SetDefault("kanban.default_board", "")
	v.SetDefault("kanban.auto_sync", true)
	v.SetDefault("kanban.template_file", "")
	v.SetDefault("kanban.sync_page_size", 100)
	v.SetDefault("kanban.watch_template", false)
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", "condoqueixas.board")
}
