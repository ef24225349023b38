package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
)

type MockSessionFactory struct {
	mock.Mock
}

func (m *MockSessionFactory) FromAccessCode(ctx context.Context, code string) (drepo.Session, error) {
	args := m.Called(ctx, code)
	s, _ := args.Get(0).(drepo.Session)
	return s, args.Error(1)
}

func (m *MockSessionFactory) FromTokenFile(ctx context.Context, path string) (drepo.Session, error) {
	args := m.Called(ctx, path)
	s, _ := args.Get(0).(drepo.Session)
	return s, args.Error(1)
}

func (m *MockSessionFactory) RefreshFromTokenFile(ctx context.Context, path string) (drepo.Session, error) {
	args := m.Called(ctx, path)
	s, _ := args.Get(0).(drepo.Session)
	return s, args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) AccountIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockSession) TickerInformation(ctx context.Context, symbol string) (*models.SymbolInfo, error) {
	args := m.Called(ctx, symbol)
	info, _ := args.Get(0).(*models.SymbolInfo)
	return info, args.Error(1)
}

func (m *MockSession) AccountPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	args := m.Called(ctx, accountID)
	positions, _ := args.Get(0).([]models.Position)
	return positions, args.Error(1)
}

func (m *MockSession) AccountBalances(ctx context.Context, accountID string) (*models.Balances, error) {
	args := m.Called(ctx, accountID)
	bal, _ := args.Get(0).(*models.Balances)
	return bal, args.Error(1)
}

func (m *MockSession) AccountActivities(ctx context.Context, accountID string, start, end time.Time) ([]models.Activity, error) {
	args := m.Called(ctx, accountID, start, end)
	acts, _ := args.Get(0).([]models.Activity)
	return acts, args.Error(1)
}

// recordingMetrics keeps bootstrap states and report names in call order.
type recordingMetrics struct {
	mu         sync.Mutex
	bootstraps []string
	reports    []string
}

func (r *recordingMetrics) RecordRequest(string, int, time.Duration) {}

func (r *recordingMetrics) RecordBootstrap(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bootstraps = append(r.bootstraps, state)
}

func (r *recordingMetrics) RecordReport(report string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}
