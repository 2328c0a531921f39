package utils

import "errors"

var (
	ErrUnauthenticated      = errors.New("not signed in")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountExists        = errors.New("an account with this email already exists")
	ErrProRequired          = errors.New("this feature requires a Pro account")
	ErrNoAthlete            = errors.New("add an athlete first")
	ErrUnknownAthlete       = errors.New("athlete not found")
	ErrInvalidAthleteName   = errors.New("athlete name is required")
	ErrAthleteLimit         = errors.New("athlete limit reached")
	ErrNothingToLog         = errors.New("select at least one focus area")
	ErrInvalidSkill         = errors.New("unknown skill")
	ErrUnknownDrill         = errors.New("unknown drill")
	ErrInvalidDate          = errors.New("invalid practice date")
	ErrGoalLimit            = errors.New("goal limit reached")
	ErrBillingNotConfigured = errors.New("billing is not configured")
	ErrAlreadyPro           = errors.New("account already has Pro")

	// ErrBackendUnavailable is wrapped by failures that never got an answer
	// from a remote backend.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// BackendRejection is a request a remote backend received and refused. Its
// Error text is shown to the user unchanged.
type BackendRejection interface {
	error
	BackendStatus() int
	BackendCode() string
}
