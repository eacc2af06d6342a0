package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"condoqueixas/internal/bootstrap/config"
	"condoqueixas/internal/bootstrap/database"
	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/boardtemplate"
	cacheinfra "condoqueixas/internal/infrastructure/cache"
	"condoqueixas/internal/infrastructure/persistence/relational/repository"
	"condoqueixas/internal/infrastructure/persistence/relational/uow"
	"condoqueixas/internal/infrastructure/realtime"
	"condoqueixas/internal/ports"
	"condoqueixas/internal/usecase/complaints"
	"condoqueixas/internal/usecase/kanban"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			repository.NewComplaintRepository,
			fx.As(new(ports.ComplaintRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewKanbanRepository,
			fx.As(new(ports.KanbanRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(ports.UserDirectory)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewAuditRepository,
			fx.As(new(ports.AuditLogger)),
			fx.As(new(ports.AuditReader)),
		),
	),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCache),
	fx.Provide(provideHub),
	fx.Provide(provideNotifier),
	fx.Provide(provideKanbanService),
	fx.Provide(provideComplaintService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideCache returns the status snapshot cache selected by cache.driver.
// "none" yields a nil cache, which the complaint service tolerates.
func provideCache(lc fx.Lifecycle, ctx context.Context, cfg config.Config, db *gorm.DB) (ports.Cache, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	switch strings.ToLower(cfg.Cache.Driver) {
	case "none":
		logging.Info(logCtx, "status cache disabled")
		return nil, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		redisCache := cacheinfra.NewRedisCache(client, cfg.Cache.Prefix)
		lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				if err := redisCache.Ping(startCtx); err != nil {
					return errs.Wrapf(err, "connect redis %s", cfg.Cache.RedisAddr)
				}
				logging.Info(logCtx, "redis cache connected", slog.String("addr", cfg.Cache.RedisAddr))
				return nil
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return redisCache, nil
	default:
		return cacheinfra.NewSQLCache(db), nil
	}
}

func provideHub(lc fx.Lifecycle) *realtime.Hub {
	hub := realtime.NewHub()
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// provideNotifier fans board events out to the websocket hub and, when
// events.nats_url is set, to NATS.
func provideNotifier(lc fx.Lifecycle, ctx context.Context, cfg config.Config, hub *realtime.Hub) (ports.BoardNotifier, error) {
	url := strings.TrimSpace(cfg.Events.NATSURL)
	if url == "" {
		return hub, nil
	}
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	conn, err := nats.Connect(url, nats.Name(cfg.App.Name), nats.MaxReconnects(-1))
	if err != nil {
		return nil, errs.Wrapf(err, "connect nats %s", url)
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return conn.Drain()
		},
	})
	logging.Info(logCtx, "board events bridged to nats", slog.String("url", url), slog.String("prefix", cfg.Events.SubjectPrefix))
	return realtime.Fanout{hub, realtime.NewNATSNotifier(conn, cfg.Events.SubjectPrefix)}, nil
}

type kanbanParams struct {
	fx.In

	Ctx        context.Context
	Config     config.Config
	Boards     ports.KanbanRepository
	Complaints ports.ComplaintRepository
	UnitOfWork ports.UnitOfWork
	Audit      ports.AuditLogger
	Notifier   ports.BoardNotifier
}

func provideKanbanService(p kanbanParams) (*kanban.Service, error) {
	opts, err := kanbanOptions(p.Config.Kanban)
	if err != nil {
		return nil, err
	}
	logging.Info(
		logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx")),
		"kanban board configured",
		slog.String("board", opts.BoardTitle),
		slog.Int("columns", len(opts.Template.Columns)),
	)
	return kanban.NewService(kanban.Dependencies{
		Boards:     p.Boards,
		Complaints: p.Complaints,
		UnitOfWork: p.UnitOfWork,
		Audit:      p.Audit,
		Notifier:   p.Notifier,
	}, opts), nil
}

// kanbanOptions reads kanban.template_file when set. default_board, when
// given, overrides the template title.
func kanbanOptions(cfg config.KanbanConfig) (kanban.Options, error) {
	opts := kanban.DefaultOptions()
	opts.SyncPageSize = cfg.SyncPageSize

	if path := strings.TrimSpace(cfg.TemplateFile); path != "" {
		tpl, err := boardtemplate.Load(path)
		if err != nil {
			return kanban.Options{}, err
		}
		opts.Template = tpl
		opts.BoardTitle = tpl.Title
	}
	if title := strings.TrimSpace(cfg.DefaultBoard); title != "" {
		opts.BoardTitle = title
		opts.Template.Title = title
	}
	return opts, nil
}

type complaintParams struct {
	fx.In

	Config     config.Config
	Complaints ports.ComplaintRepository
	Users      ports.UserDirectory
	UnitOfWork ports.UnitOfWork
	Audit      ports.AuditLogger
	AuditLogs  ports.AuditReader
	Cache      ports.Cache
	Board      *kanban.Service
}

func provideComplaintService(p complaintParams) *complaints.Service {
	cfg := p.Config.Complaints
	opts := complaints.Options{
		DailyLimit:      cfg.DailyLimit,
		LimitWindow:     cfg.LimitWindow,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		ResidentFeed:    cfg.ResidentFeed,
		StatusCacheTTL:  p.Config.Cache.TTL,
		AutoSyncBoard:   p.Config.Kanban.AutoSync,
	}
	return complaints.NewService(complaints.Dependencies{
		Complaints: p.Complaints,
		Users:      p.Users,
		UnitOfWork: p.UnitOfWork,
		Audit:      p.Audit,
		AuditLogs:  p.AuditLogs,
		Cache:      p.Cache,
		Board:      p.Board,
	}, opts)
}
