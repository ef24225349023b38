package models

// SessionState tags how a session was obtained.
type SessionState string

const (
	// SessionFresh is a session from a valid token file or a new access code.
	SessionFresh SessionState = "fresh"
	// SessionRefreshed is a session obtained by refreshing the token file.
	SessionRefreshed SessionState = "refreshed"
	// SessionInvalid means every fallback failed.
	SessionInvalid SessionState = "invalid"
)

// BootstrapStep names one step of the session fallback chain.
type BootstrapStep string

const (
	StepTokenFile  BootstrapStep = "token_file"
	StepRefresh    BootstrapStep = "refresh"
	StepAccessCode BootstrapStep = "access_code"
)

// BootstrapResult is the tagged outcome of establishing a session.
type BootstrapResult struct {
	State SessionState
	// Steps lists the steps attempted, in order.
	Steps []BootstrapStep
	// TokenFileDeleted is set when the stale token file was removed.
	TokenFileDeleted bool
}

// Usable reports whether reports may run on the session.
func (r BootstrapResult) Usable() bool {
	return r.State == SessionFresh || r.State == SessionRefreshed
}
