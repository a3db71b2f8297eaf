//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/netctl/internal/adapters"
	"github.com/trebuchet-org/netctl/internal/config"
	"github.com/trebuchet-org/netctl/internal/domain"
	"github.com/trebuchet-org/netctl/internal/logging"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Session state, one per process
		domain.NewActiveNetwork,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewNetworkSession,

		// App
		NewApp,
	)
	return nil, nil
}
