package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"QuantInvest/internal/domain/models"
	drepo "QuantInvest/internal/domain/repository"
	"QuantInvest/pkg/logger"
)

// SessionBootstrapper establishes a brokerage session, falling back from
// the stored token file to a token refresh and finally to the access code.
type SessionBootstrapper struct {
	factory    drepo.SessionFactory
	accessCode string
	tokenFile  string
	logger     *logger.Logger
	metrics    drepo.Metrics
}

// NewSessionBootstrapper creates a new SessionBootstrapper instance.
func NewSessionBootstrapper(
	factory drepo.SessionFactory,
	accessCode string,
	tokenFile string,
	log *logger.Logger,
	metrics drepo.Metrics,
) *SessionBootstrapper {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionBootstrapper{
		factory:    factory,
		accessCode: accessCode,
		tokenFile:  tokenFile,
		logger:     log.With(logger.String("component", "session_bootstrapper")),
		metrics:    metrics,
	}
}

// Establish runs the fallback chain. Intermediate failures are logged and
// drive the next step; only the terminal failure is returned, as an
// *models.AuthenticationError with an Invalid result.
func (b *SessionBootstrapper) Establish(ctx context.Context) (drepo.Session, models.BootstrapResult, error) {
	var res models.BootstrapResult

	s, state, err := b.establish(ctx, &res)
	res.State = state
	if b.metrics != nil {
		b.metrics.RecordBootstrap(string(state))
	}

	if err != nil {
		b.logger.Error("session bootstrap failed", logger.Error(err))
		return nil, res, err
	}

	b.logger.Info("session established", logger.String("state", string(state)))
	return s, res, nil
}

func (b *SessionBootstrapper) establish(ctx context.Context, res *models.BootstrapResult) (drepo.Session, models.SessionState, error) {
	if !b.tokenFileExists() {
		return b.fromAccessCode(ctx, res)
	}

	res.Steps = append(res.Steps, models.StepTokenFile)
	s, err := b.factory.FromTokenFile(ctx, b.tokenFile)
	if err == nil {
		err = b.verify(ctx, s)
	}
	if err == nil {
		return s, models.SessionFresh, nil
	}
	b.logger.Warn("stored token unusable, refreshing", logger.String("token_file", b.tokenFile), logger.Error(err))

	res.Steps = append(res.Steps, models.StepRefresh)
	s, err = b.factory.RefreshFromTokenFile(ctx, b.tokenFile)
	if err == nil {
		err = b.verify(ctx, s)
	}
	if err == nil {
		return s, models.SessionRefreshed, nil
	}
	b.logger.Warn("token refresh failed, falling back to access code", logger.Error(err))

	if rmErr := os.Remove(b.tokenFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		b.logger.Warn("could not delete token file", logger.String("token_file", b.tokenFile), logger.Error(rmErr))
	} else {
		res.TokenFileDeleted = true
	}

	return b.fromAccessCode(ctx, res)
}

func (b *SessionBootstrapper) fromAccessCode(ctx context.Context, res *models.BootstrapResult) (drepo.Session, models.SessionState, error) {
	res.Steps = append(res.Steps, models.StepAccessCode)
	s, err := b.factory.FromAccessCode(ctx, b.accessCode)
	if err != nil {
		return nil, models.SessionInvalid, &models.AuthenticationError{
			Message: "manual re-authorization required: obtain a new access code",
			Err:     err,
		}
	}
	return s, models.SessionFresh, nil
}

// verify checks the session is alive with the cheapest authenticated call.
func (b *SessionBootstrapper) verify(ctx context.Context, s drepo.Session) error {
	if s == nil {
		return errors.New("factory returned no session")
	}
	if _, err := s.AccountIDs(ctx); err != nil {
		return fmt.Errorf("verify session: %w", err)
	}
	return nil
}

func (b *SessionBootstrapper) tokenFileExists() bool {
	if b.tokenFile == "" {
		return false
	}
	_, err := os.Stat(b.tokenFile)
	return err == nil
}
