package repository

import (
	"context"
	"time"

	"QuantInvest/internal/domain/models"
)

// SessionFactory creates brokerage sessions from the available credentials.
type SessionFactory interface {
	// FromAccessCode exchanges a manually issued access code for a session
	// and persists the resulting token file.
	FromAccessCode(ctx context.Context, code string) (Session, error)
	// FromTokenFile reuses the tokens stored in the token file as they are.
	FromTokenFile(ctx context.Context, path string) (Session, error)
	// RefreshFromTokenFile exchanges the stored refresh token for new tokens
	// and rewrites the token file.
	RefreshFromTokenFile(ctx context.Context, path string) (Session, error)
}

// Session is an authenticated handle to the brokerage API.
type Session interface {
	AccountIDs(ctx context.Context) ([]string, error)
	TickerInformation(ctx context.Context, symbol string) (*models.SymbolInfo, error)
	AccountPositions(ctx context.Context, accountID string) ([]models.Position, error)
	AccountBalances(ctx context.Context, accountID string) (*models.Balances, error)
	AccountActivities(ctx context.Context, accountID string, start, end time.Time) ([]models.Activity, error)
}

// AccountLister is implemented by sessions that can return full account
// records, not only their numbers.
type AccountLister interface {
	Accounts(ctx context.Context) ([]models.Account, error)
}

type Metrics interface {
	RecordRequest(endpoint string, status int, elapsed time.Duration)
	RecordBootstrap(state string)
	RecordReport(report string, elapsed time.Duration)
}
