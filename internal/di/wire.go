//go:build wireinject
// +build wireinject

package di

import (
	"QuantInvest/internal/domain/repository"
	"QuantInvest/pkg/config"
	"QuantInvest/pkg/metrics"
	"QuantInvest/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		wire.Bind(new(repository.Metrics), new(*metrics.Recorder)),

		// Infrastructure clients
		ProvideCache,
		ProvideHTTPClient,

		// Brokerage
		ProvideSessionFactory,
		ProvideSessionBootstrapper,

		// Application
		server.New,
	)
	return &server.App{}, nil
}
