package response_models

import (
	"practicelog/internal/models/db_models"
	"practicelog/internal/tier"
)

type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SessionView struct {
	SignedIn bool               `json:"signed_in"`
	User     *UserView          `json:"user,omitempty"`
	Profile  *db_models.Profile `json:"profile,omitempty"`
	Features tier.Features      `json:"features"`
}

type SignUpView struct {
	ConfirmationPending bool        `json:"confirmation_pending"`
	Session             SessionView `json:"session"`
}

type CheckoutView struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}
