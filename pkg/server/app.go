package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
	"QuantInvest/internal/domain/service"
	"QuantInvest/internal/repository"
	"QuantInvest/internal/usecase"
	"QuantInvest/pkg/cache"
	"QuantInvest/pkg/config"
	applogger "QuantInvest/pkg/logger"
	"QuantInvest/pkg/metrics"
)

// App encapsulates the lifecycle of one CLI invocation: it establishes the
// brokerage session on first use and flushes metrics on Close.
type App struct {
	cfg          *config.Config
	logger       *applogger.Logger
	metrics      *metrics.Recorder
	cache        cache.Service
	bootstrapper *usecase.SessionBootstrapper

	once    sync.Once
	session drepo.Session
	result  models.BootstrapResult
	err     error
}

// New creates a new App instance with all dependencies. c may be nil when
// the symbol cache is disabled.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	recorder *metrics.Recorder,
	c cache.Service,
	bootstrapper *usecase.SessionBootstrapper,
) *App {
	return &App{
		cfg:          cfg,
		logger:       logger,
		metrics:      recorder,
		cache:        c,
		bootstrapper: bootstrapper,
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() *applogger.Logger { return a.logger }

// Session establishes the brokerage session once and reuses it afterwards.
func (a *App) Session(ctx context.Context) (drepo.Session, models.BootstrapResult, error) {
	a.once.Do(func() {
		s, res, err := a.bootstrapper.Establish(ctx)
		if err == nil && a.cache != nil {
			s = repository.NewCachedSession(s, a.cache, a.cfg.Cache.TTL, a.logger)
		}
		a.session, a.result, a.err = s, res, err
	})
	return a.session, a.result, a.err
}

// Reports returns the report builder for an account alias or number. An
// empty name selects the configured default account.
func (a *App) Reports(ctx context.Context, account string) (service.AccountReports, error) {
	accountID, err := a.cfg.ResolveAccount(account)
	if err != nil {
		return nil, err
	}

	loc, err := a.cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("report timezone: %w", err)
	}
	start, err := a.cfg.DividendStart()
	if err != nil {
		return nil, fmt.Errorf("dividend start date: %w", err)
	}

	s, _, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}

	return usecase.NewAccountReportBuilder(s, accountID,
		usecase.WithLogger(a.logger),
		usecase.WithMetrics(a.metrics),
		usecase.WithDividendStart(start),
		usecase.WithClock(func() time.Time { return time.Now().In(loc) }),
	), nil
}

// Accounts lists the accounts visible to the session. Sessions that only
// know account numbers yield records with just the number set.
func (a *App) Accounts(ctx context.Context) ([]models.Account, error) {
	s, _, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}

	if lister, ok := s.(drepo.AccountLister); ok {
		return lister.Accounts(ctx)
	}

	ids, err := s.AccountIDs(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]models.Account, len(ids))
	for i, id := range ids {
		accounts[i] = models.Account{Number: id}
	}
	return accounts, nil
}

// Close flushes metrics and releases the cache connection.
func (a *App) Close() error {
	var firstErr error

	if a.cfg.Metrics.Enabled && a.metrics != nil {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
			a.logger.Warn("metrics textfile write failed", applogger.String("path", a.cfg.Metrics.TextfilePath), applogger.Error(err))
			firstErr = err
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
