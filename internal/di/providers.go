package di

import (
	"context"
	"fmt"
	"time"

	"QuantInvest/internal/domain/repository"
	"QuantInvest/internal/service/questrade"
	"QuantInvest/internal/usecase"
	"QuantInvest/pkg/cache"
	"QuantInvest/pkg/config"
	qhttp "QuantInvest/pkg/http"
	"QuantInvest/pkg/logger"
	"QuantInvest/pkg/metrics"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCache creates the symbol metadata cache, or nil when disabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	mem := func() *cache.MemoryCache {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize))
	}
	redis := func() (*cache.RedisCache, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx,
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		rc, err := redis()
		if err != nil {
			return nil, err
		}
		return rc, nil
	case "layered":
		rc, err := redis()
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(mem(), rc, cfg.Cache.TTL), nil
	default:
		return mem(), nil
	}
}

// ProvideHTTPClient creates the rate-limited HTTP client for the brokerage.
func ProvideHTTPClient(cfg *config.Config) *qhttp.Client {
	return qhttp.NewClient(
		qhttp.WithTimeout(cfg.Questrade.Timeout),
		qhttp.WithRateLimit(cfg.Questrade.RateLimit),
	)
}

// ProvideSessionFactory creates the Questrade session factory.
func ProvideSessionFactory(
	cfg *config.Config,
	client *qhttp.Client,
	log *logger.Logger,
	m repository.Metrics,
) repository.SessionFactory {
	return questrade.NewFactory(client,
		questrade.WithLoginURL(cfg.Questrade.LoginURL),
		questrade.WithTokenFile(cfg.Questrade.TokenFile),
		questrade.WithLogger(log.With(logger.String("component", "questrade"))),
		questrade.WithMetrics(m),
	)
}

// ProvideSessionBootstrapper creates the session fallback chain.
func ProvideSessionBootstrapper(
	cfg *config.Config,
	factory repository.SessionFactory,
	log *logger.Logger,
	m repository.Metrics,
) *usecase.SessionBootstrapper {
	return usecase.NewSessionBootstrapper(factory, cfg.Questrade.AccessCode, cfg.Questrade.TokenFile, log, m)
}
