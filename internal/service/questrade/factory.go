// Package questrade implements brokerage sessions on top of the Questrade
// REST API.
package questrade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
	qhttp "QuantInvest/pkg/http"
	"QuantInvest/pkg/logger"
)

const (
	DefaultLoginURL = "https://login.questrade.com"

	endpointOAuth = "oauth"
)

// Factory creates Questrade sessions. It implements repository.SessionFactory.
type Factory struct {
	client    *qhttp.Client
	loginURL  string
	tokenFile string
	logger    *logger.Logger
	metrics   drepo.Metrics
	now       func() time.Time
}

// FactoryOption configures the factory.
type FactoryOption func(*Factory)

// WithLoginURL sets the OAuth server base URL.
func WithLoginURL(u string) FactoryOption {
	return func(f *Factory) {
		if u != "" {
			f.loginURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTokenFile sets where tokens obtained from an access code are saved.
func WithTokenFile(path string) FactoryOption {
	return func(f *Factory) {
		f.tokenFile = path
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMetrics sets the request metrics recorder.
func WithMetrics(m drepo.Metrics) FactoryOption {
	return func(f *Factory) {
		if m != nil {
			f.metrics = m
		}
	}
}

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		f.now = now
	}
}

// NewFactory creates a session factory using client for all HTTP calls.
func NewFactory(client *qhttp.Client, opts ...FactoryOption) *Factory {
	f := &Factory{
		client:   client,
		loginURL: DefaultLoginURL,
		logger:   logger.NewNop(),
		metrics:  nopMetrics{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

var _ drepo.SessionFactory = (*Factory)(nil)

// FromAccessCode exchanges a manually issued access code. The access code
// takes the place of the refresh token in the OAuth exchange. The new token
// set is written to the configured token file, if any.
func (f *Factory) FromAccessCode(ctx context.Context, code string) (drepo.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &models.AuthenticationError{Message: "no access code configured"}
	}

	tok, err := f.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if f.tokenFile != "" {
		if err := SaveToken(f.tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return f.newSession(tok), nil
}

// FromTokenFile loads the token file without contacting the login server.
func (f *Factory) FromTokenFile(_ context.Context, path string) (drepo.Session, error) {
	tok, err := LoadToken(path)
	if err != nil {
		return nil, err
	}
	if tok.Expired(f.now()) {
		return nil, fmt.Errorf("%s: %w", path, ErrTokenExpired)
	}
	return f.newSession(tok), nil
}

// RefreshFromTokenFile exchanges the stored refresh token and rewrites the
// token file with the new token set.
func (f *Factory) RefreshFromTokenFile(ctx context.Context, path string) (drepo.Session, error) {
	old, err := LoadToken(path)
	if err != nil {
		return nil, err
	}

	tok, err := f.exchange(ctx, old.RefreshToken)
	if err != nil {
		return nil, err
	}
	if err := SaveToken(path, tok); err != nil {
		return nil, err
	}
	return f.newSession(tok), nil
}

func (f *Factory) exchange(ctx context.Context, refreshToken string) (*Token, error) {
	start := time.Now()
	var tok Token
	err := f.client.SendAndParse(ctx, &qhttp.RequestOptions{
		Method: qhttp.MethodGet,
		URL:    f.loginURL + "/oauth2/token",
		QueryParams: map[string][]string{
			"grant_type":    {"refresh_token"},
			"refresh_token": {refreshToken},
		},
	}, &tok)
	f.metrics.RecordRequest(endpointOAuth, statusOf(err), time.Since(start))
	if err != nil {
		if qhttp.IsBadRequest(err) || qhttp.IsUnauthorized(err) {
			return nil, &models.AuthenticationError{Message: "token exchange rejected", Err: err}
		}
		return nil, models.Upstream("token exchange", err)
	}
	if err := tok.validate(); err != nil {
		return nil, models.Upstream("token exchange", err)
	}

	tok.ExpiresAt = f.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	f.logger.Debug("questrade token issued",
		logger.String("api_server", tok.APIServer),
		logger.Any("expires_at", tok.ExpiresAt),
	)
	return &tok, nil
}

func (f *Factory) newSession(tok *Token) *Session {
	return &Session{
		client:  f.client,
		token:   tok,
		baseURL: strings.TrimRight(tok.APIServer, "/") + "/v1/",
		logger:  f.logger,
		metrics: f.metrics,
	}
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	return qhttp.StatusCode(err)
}

type nopMetrics struct{}

func (nopMetrics) RecordRequest(string, int, time.Duration) {}
func (nopMetrics) RecordBootstrap(string)                   {}
func (nopMetrics) RecordReport(string, time.Duration)       {}
