package app

import (
	"log/slog"

	"github.com/trebuchet-org/netctl/internal/domain/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// App is the main application container
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Networks usecase.NetworkResolver
	Selector usecase.NetworkSelector

	// Use cases
	Session *usecase.NetworkSession

	// Adapters (needed for special cases like log streaming)
	Node usecase.NodeManager
}

// NewApp creates a new application instance
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	networks usecase.NetworkResolver,
	selector usecase.NetworkSelector,
	session *usecase.NetworkSession,
	node usecase.NodeManager,
) *App {
	return &App{
		Config:   cfg,
		Log:      log,
		Networks: networks,
		Selector: selector,
		Session:  session,
		Node:     node,
	}
}
