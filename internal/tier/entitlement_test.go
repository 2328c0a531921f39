package tier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"practicelog/internal/models/db_models"
)

func TestIsEntitled(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		profile *db_models.Profile
		want    bool
	}{
		{"nil profile", nil, false},
		{"free", &db_models.Profile{ID: "u1"}, false},
		{"pro without expiry", &db_models.Profile{ID: "u1", IsPro: true}, true},
		{"pro not yet expired", &db_models.Profile{ID: "u1", IsPro: true, ProExpiresAt: &future}, true},
		{"pro expired", &db_models.Profile{ID: "u1", IsPro: true, ProExpiresAt: &past}, false},
		{"pro expiring exactly now", &db_models.Profile{ID: "u1", IsPro: true, ProExpiresAt: &now}, false},
		{"expiry without flag", &db_models.Profile{ID: "u1", ProExpiresAt: &future}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEntitled(tt.profile, now))
			assert.Equal(t, tt.want, Evaluate(tt.profile, now).Pro)
		})
	}
}

func TestLimits(t *testing.T) {
	assert.Equal(t, 1, Free.AthleteLimit())
	assert.Equal(t, 1, Free.GoalLimit())

	pro := Entitlement{Pro: true}
	assert.Equal(t, 10, pro.AthleteLimit())
	assert.Equal(t, 3, pro.GoalLimit())

	f := Free.Features()
	assert.False(t, f.Drills)
	assert.False(t, f.Charts)
	assert.False(t, f.Export)
	assert.True(t, pro.Features().DrillFrequency)
}
