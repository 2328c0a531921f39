package db_models

import "time"

// Profile is the per-account row holding the Pro entitlement. It is written by
// the billing flow only; this service reads it.
type Profile struct {
	ID               string     `gorm:"type:uuid;primaryKey" json:"id"`
	IsPro            bool       `gorm:"not null;default:false" json:"is_pro"`
	ProExpiresAt     *time.Time `json:"pro_expires_at"`
	StripeCustomerID *string    `json:"stripe_customer_id"`
}

func (Profile) TableName() string { return "profiles" }
