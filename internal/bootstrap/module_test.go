package bootstrap

import (
	"context"
	"testing"

	"go.uber.org/fx"

	"condoqueixas/internal/infrastructure/realtime"
	"condoqueixas/internal/ports"
	"condoqueixas/internal/usecase/complaints"
	"condoqueixas/internal/usecase/kanban"
)

func TestModuleGraphResolves(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Provide(func() context.Context { return context.Background() }),
		fx.Provide(
			fx.Annotate(
				func() string { return "" },
				fx.ResultTags(`name:"configFile"`),
			),
		),
		fx.Invoke(func(*App, *complaints.Service, *kanban.Service, *realtime.Hub) {}),
		fx.Invoke(func(ports.AuditLogger, ports.AuditReader, ports.BoardNotifier) {}),
	)
	if err != nil {
		t.Fatalf("fx.ValidateApp() error = %v", err)
	}
}
