package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/realtime"
	"condoqueixas/internal/usecase/complaints"
	"condoqueixas/internal/usecase/kanban"
)

// Config for the HTTP API handler.
type Config struct {
	Complaints *complaints.Service
	Kanban     *kanban.Service
	Hub        *realtime.Hub
	BasePath   string
	Auth       AuthConfig
	Logger     *slog.Logger
}

// New returns the HTTP handler exposing the complaint and board API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v1"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimSuffix(basePath, "/")

	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, _ ...error) huma.StatusError {
		return newAPIError(requestStatus(status), "", msg)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, _ ...error) huma.StatusError {
		return newAPIError(requestStatus(status), "", msg)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithLogger(r.Context(), cfg.Logger)
			ctx = logging.WithAttrs(ctx, slog.String("component", "api"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Use(newAuthMiddleware(basePath, cfg.Auth))

	hcfg := huma.DefaultConfig("Condo Complaints API", "1.0.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	if cfg.Complaints != nil {
		registerComplaints(group, cfg.Complaints)
		registerAuditLogs(group, cfg.Complaints)
	}
	if cfg.Kanban != nil {
		registerKanban(group, cfg.Kanban)
	}
	if cfg.Hub != nil {
		registerBoardEvents(router, basePath, cfg.Hub)
	}

	return router, nil
}

// requestStatus folds schema validation failures into 400 like use-case validation.
func requestStatus(status int) int {
	if status == http.StatusUnprocessableEntity {
		return http.StatusBadRequest
	}
	return status
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerBoardEvents(router chi.Router, basePath string, hub *realtime.Hub) {
	router.Get(basePath+"/kanban/boards/{boardId}/events", func(w http.ResponseWriter, r *http.Request) {
		if _, authErr := requesterFromContext(r.Context()); authErr != nil {
			respondStatusError(w, authErr)
			return
		}
		boardID := chi.URLParam(r, "boardId")
		if err := hub.ServeBoard(w, r, boardID); err != nil {
			// The upgrader has already answered the client.
			logging.Warn(r.Context(), "board event stream rejected", slog.String("board_id", boardID), slog.Any("err", errs.Loggable(err)))
		}
	})
}
