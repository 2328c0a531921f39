// Package tier derives the account's feature entitlement from its profile.
package tier

import (
	"time"

	"practicelog/internal/models/db_models"
)

const (
	FreeAthleteLimit = 1
	ProAthleteLimit  = 10
	FreeGoalLimit    = 1
	ProGoalLimit     = 3
)

// Entitlement is computed once per operation from the latest profile and
// passed explicitly to everything that branches on the tier. It is never
// cached across a profile refresh.
type Entitlement struct {
	Pro       bool       `json:"is_pro"`
	ExpiresAt *time.Time `json:"pro_expires_at,omitempty"`
}

// Free is the entitlement used when no profile is available.
var Free = Entitlement{}

// IsEntitled reports whether the profile carries an unexpired Pro flag.
func IsEntitled(profile *db_models.Profile, now time.Time) bool {
	if profile == nil || !profile.IsPro {
		return false
	}
	return profile.ProExpiresAt == nil || profile.ProExpiresAt.After(now)
}

func Evaluate(profile *db_models.Profile, now time.Time) Entitlement {
	if !IsEntitled(profile, now) {
		return Free
	}
	return Entitlement{Pro: true, ExpiresAt: profile.ProExpiresAt}
}

func (e Entitlement) AthleteLimit() int {
	if e.Pro {
		return ProAthleteLimit
	}
	return FreeAthleteLimit
}

func (e Entitlement) GoalLimit() int {
	if e.Pro {
		return ProGoalLimit
	}
	return FreeGoalLimit
}

func (e Entitlement) CanSwitchAthletes() bool    { return e.Pro }
func (e Entitlement) CanSelectDrills() bool      { return e.Pro }
func (e Entitlement) CanSeeDrillFrequency() bool { return e.Pro }
func (e Entitlement) CanSeeCharts() bool         { return e.Pro }
func (e Entitlement) CanExport() bool            { return e.Pro }

// Features is the flag set handed to the UI.
type Features struct {
	Pro            bool `json:"is_pro"`
	AthleteLimit   int  `json:"athlete_limit"`
	GoalLimit      int  `json:"goal_limit"`
	MultiAthlete   bool `json:"multi_athlete"`
	Drills         bool `json:"drills"`
	DrillFrequency bool `json:"drill_frequency"`
	Charts         bool `json:"charts"`
	Export         bool `json:"export"`
}

func (e Entitlement) Features() Features {
	return Features{
		Pro:            e.Pro,
		AthleteLimit:   e.AthleteLimit(),
		GoalLimit:      e.GoalLimit(),
		MultiAthlete:   e.CanSwitchAthletes(),
		Drills:         e.CanSelectDrills(),
		DrillFrequency: e.CanSeeDrillFrequency(),
		Charts:         e.CanSeeCharts(),
		Export:         e.CanExport(),
	}
}
