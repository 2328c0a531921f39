// Package identity owns the signed-in user, their tokens and the profile row
// that decides their tier. Each browser workspace has one Manager.
package identity

import (
	"time"

	"practicelog/internal/models/db_models"
	"practicelog/internal/tier"
)

type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventProfileRefreshed Event = "PROFILE_REFRESHED"
)

// State is an immutable snapshot. A new value is published on every event;
// holders of an old value never see it change.
type State struct {
	User         *User
	Profile      *db_models.Profile
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (s State) SignedIn() bool { return s.User != nil && s.AccessToken != "" }

func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Entitlement evaluates the profile at now. Signed-out state is free.
func (s State) Entitlement(now time.Time) tier.Entitlement {
	return tier.Evaluate(s.Profile, now)
}

// Listener is called after the state has been replaced.
type Listener func(event Event, state State)

// SignUpResult reports a sign-up that succeeded without an active session
// because the provider wants the email confirmed first.
type SignUpResult struct {
	ConfirmationPending bool `json:"confirmation_pending"`
}
