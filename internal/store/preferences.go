package store

import "sync"

// AthletePreference is durable client-side storage for the last selected
// athlete. It must survive a reload.
type AthletePreference interface {
	LastAthleteID() string
	RememberAthlete(athleteID string) error
}

// MemoryPreference keeps the value in process. A single value shared across
// Store instances simulates a reload.
type MemoryPreference struct {
	mu sync.Mutex
	id string
}

func (m *MemoryPreference) LastAthleteID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

func (m *MemoryPreference) RememberAthlete(athleteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = athleteID
	return nil
}
