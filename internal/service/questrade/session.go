package questrade

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
	qhttp "QuantInvest/pkg/http"
	"QuantInvest/pkg/logger"
)

// timeLayout is the ISO-8601 form the activities endpoint expects; the
// offset must always be present.
const timeLayout = "2006-01-02T15:04:05-07:00"

// Session is an authenticated Questrade API session.
type Session struct {
	client  *qhttp.Client
	token   *Token
	baseURL string
	logger  *logger.Logger
	metrics drepo.Metrics
}

var (
	_ drepo.Session       = (*Session)(nil)
	_ drepo.AccountLister = (*Session)(nil)
)

// Token returns the token set the session authenticates with.
func (s *Session) Token() Token { return *s.token }

type accountsResponse struct {
	Accounts []models.Account `json:"accounts"`
	UserID   int64            `json:"userId"`
}

type positionsResponse struct {
	Positions []models.Position `json:"positions"`
}

type activitiesResponse struct {
	Activities []models.Activity `json:"activities"`
}

type symbolsResponse struct {
	Symbols []models.SymbolInfo `json:"symbols"`
}

// Accounts lists the accounts of the authenticated user.
func (s *Session) Accounts(ctx context.Context) ([]models.Account, error) {
	var resp accountsResponse
	if err := s.get(ctx, "accounts", "accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// AccountIDs lists the account numbers of the authenticated user. It is also
// the cheapest call to check that a session is alive.
func (s *Session) AccountIDs(ctx context.Context) ([]string, error) {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.Number
	}
	return ids, nil
}

func (s *Session) TickerInformation(ctx context.Context, symbol string) (*models.SymbolInfo, error) {
	var resp symbolsResponse
	q := url.Values{"names": {symbol}}
	if err := s.get(ctx, "symbols", "symbols", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Symbols) == 0 {
		return nil, models.Upstream("get symbol "+symbol, fmt.Errorf("symbol %q not found", symbol))
	}
	info := resp.Symbols[0]
	return &info, nil
}

func (s *Session) AccountPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	var resp positionsResponse
	if err := s.get(ctx, "positions", accountPath(accountID, "positions"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Positions, nil
}

func (s *Session) AccountBalances(ctx context.Context, accountID string) (*models.Balances, error) {
	var resp models.Balances
	if err := s.get(ctx, "balances", accountPath(accountID, "balances"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AccountActivities returns the activities between start and end, both
// inclusive at second precision.
func (s *Session) AccountActivities(ctx context.Context, accountID string, start, end time.Time) ([]models.Activity, error) {
	var resp activitiesResponse
	q := url.Values{
		"startTime": {start.Format(timeLayout)},
		"endTime":   {end.Format(timeLayout)},
	}
	if err := s.get(ctx, "activities", accountPath(accountID, "activities"), q, &resp); err != nil {
		return nil, err
	}
	return resp.Activities, nil
}

func (s *Session) get(ctx context.Context, endpoint, path string, query url.Values, dest interface{}) error {
	start := time.Now()
	err := s.client.SendAndParse(ctx, &qhttp.RequestOptions{
		Method:      qhttp.MethodGet,
		URL:         s.baseURL + path,
		QueryParams: query,
		BearerToken: s.token.AccessToken,
	}, dest)
	elapsed := time.Since(start)
	s.metrics.RecordRequest(endpoint, statusOf(err), elapsed)

	if err != nil {
		s.logger.Debug("questrade request failed",
			logger.String("endpoint", endpoint),
			logger.Int("status", qhttp.StatusCode(err)),
			logger.Error(err),
		)
		if qhttp.IsUnauthorized(err) {
			return &models.AuthenticationError{Message: "access token rejected", Err: err}
		}
		return models.Upstream("get "+path, err)
	}

	s.logger.Debug("questrade request",
		logger.String("endpoint", endpoint),
		logger.Duration("elapsed", elapsed),
	)
	return nil
}

func accountPath(accountID, resource string) string {
	return "accounts/" + url.PathEscape(accountID) + "/" + resource
}
