package repository

import (
	"context"
	"errors"
	"time"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
	"QuantInvest/pkg/cache"
	"QuantInvest/pkg/logger"
)

const symbolKeyPrefix = "symbol"

// CachedSession serves ticker metadata from a cache and passes every other
// call through to the wrapped session. Account data is never cached.
type CachedSession struct {
	drepo.Session
	cache  cache.Service
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSession wraps inner. A non-positive ttl keeps entries until the
// backend evicts them.
func NewCachedSession(inner drepo.Session, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedSession {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedSession{Session: inner, cache: c, ttl: ttl, logger: log}
}

// TickerInformation returns cached symbol metadata, fetching and storing it
// on a miss. Cache failures fall back to the inner session.
func (s *CachedSession) TickerInformation(ctx context.Context, symbol string) (*models.SymbolInfo, error) {
	key := cache.Key(symbolKeyPrefix, symbol)

	var info models.SymbolInfo
	err := s.cache.Get(ctx, key, &info)
	if err == nil {
		return &info, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("symbol cache read failed", logger.String("symbol", symbol), logger.Error(err))
	}

	fetched, err := s.Session.TickerInformation(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, fetched, s.ttl); err != nil {
		s.logger.Warn("symbol cache write failed", logger.String("symbol", symbol), logger.Error(err))
	}
	return fetched, nil
}

// Accounts forwards to the inner session when it can list full accounts.
func (s *CachedSession) Accounts(ctx context.Context) ([]models.Account, error) {
	lister, ok := s.Session.(drepo.AccountLister)
	if !ok {
		return nil, errors.New("session cannot list accounts")
	}
	return lister.Accounts(ctx)
}

var (
	_ drepo.Session       = (*CachedSession)(nil)
	_ drepo.AccountLister = (*CachedSession)(nil)
)
