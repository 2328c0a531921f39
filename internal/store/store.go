// Package store is the signed-in user's in-memory view of their athletes,
// recent practices, active goals and drill usage. It loads from and writes
// through the gateway repositories and only changes local state after the
// backend confirmed a call.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"practicelog/internal/catalog"
	"practicelog/internal/models/db_models"
	"practicelog/internal/models/response_models"
	"practicelog/internal/repositories"
	"practicelog/internal/tier"
	"practicelog/pkg/utils"
)

type DrillInsertMode string

const (
	// DrillInsertBatch attaches all drills in one multi-row insert.
	DrillInsertBatch DrillInsertMode = "batch"
	// DrillInsertSequential issues one insert per drill and keeps earlier
	// rows when a later one fails.
	DrillInsertSequential DrillInsertMode = "sequential"
)

func ParseDrillInsertMode(s string) (DrillInsertMode, error) {
	switch DrillInsertMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DrillInsertSequential:
		return DrillInsertSequential, nil
	case DrillInsertBatch:
		return DrillInsertBatch, nil
	}
	return "", fmt.Errorf("unknown drill insert mode %q", s)
}

type Repositories struct {
	Athletes       repositories.AthleteRepository
	Practices      repositories.PracticeRepository
	Goals          repositories.GoalRepository
	DrillFrequency repositories.DrillFrequencyRepository
}

type Options struct {
	DrillInsertMode DrillInsertMode
	Clock           func() time.Time
	Logger          *zap.Logger
}

type Store struct {
	userID string
	repos  Repositories
	mode   DrillInsertMode
	clock  func() time.Time
	logger *zap.Logger

	// opMu serializes operations the way the single UI thread did; mu guards
	// state for readers while an operation is in flight.
	opMu  sync.Mutex
	mu    sync.RWMutex
	state State
}

func New(userID string, repos Repositories, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DrillInsertMode == "" {
		opts.DrillInsertMode = DrillInsertSequential
	}
	return &Store{
		userID: userID,
		repos:  repos,
		mode:   opts.DrillInsertMode,
		clock:  opts.Clock,
		logger: opts.Logger.With(zap.String("user_id", userID)),
		state:  InitialState(opts.Clock()),
	}
}

func (s *Store) UserID() string { return s.userID }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) DismissError() {
	s.apply(func(st State) State { return withError(st, nil) })
}

// Clear drops everything, used when the user signs out.
func (s *Store) Clear() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	s.state = InitialState(s.clock())
	s.mu.Unlock()
}

func (s *Store) apply(fn func(State) State) {
	s.mu.Lock()
	s.state = fn(s.state)
	s.mu.Unlock()
}

// fail records a gateway failure for display and hands it back to the caller.
func (s *Store) fail(op string, err error) error {
	s.logger.Warn("store operation failed", zap.String("op", op), zap.Error(err))
	s.apply(func(st State) State { return withError(st, err) })
	return err
}

func (s *Store) beginSaving() func() {
	s.apply(func(st State) State { return withSaving(withError(st, nil), true) })
	return func() {
		s.apply(func(st State) State { return withSaving(st, false) })
	}
}

// LoadData fetches the roster, picks the current athlete and loads its data.
// The roster limit follows the entitlement passed in; athletes beyond it are
// not shown.
func (s *Store) LoadData(ctx context.Context, ent tier.Entitlement, prefs AthletePreference) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.apply(func(st State) State { return withError(st, nil) })
	athletes, err := s.repos.Athletes.ListActive(ctx, s.userID, ent.AthleteLimit())
	if err != nil {
		return s.fail("load_athletes", err)
	}
	s.apply(func(st State) State { return withAthletes(st, athletes) })
	if len(athletes) == 0 {
		return nil
	}

	current := athletes[0].ID
	if remembered := prefs.LastAthleteID(); remembered != "" {
		for _, a := range athletes {
			if a.ID == remembered {
				current = remembered
				break
			}
		}
	}
	s.remember(prefs, current)
	s.apply(func(st State) State { return withCurrentAthlete(st, current) })

	return s.loadAthleteData(ctx, ent, current)
}

// LoadAthleteData reloads practices, goals and (Pro) drill usage for one
// athlete. A failure keeps whatever earlier steps already loaded.
func (s *Store) LoadAthleteData(ctx context.Context, ent tier.Entitlement, athleteID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.apply(func(st State) State { return withError(st, nil) })
	return s.loadAthleteData(ctx, ent, athleteID)
}

func (s *Store) loadAthleteData(ctx context.Context, ent tier.Entitlement, athleteID string) error {
	practices, err := s.repos.Practices.ListRecent(ctx, athleteID, RecentPracticeLimit)
	if err != nil {
		return s.fail("load_practices", err)
	}
	s.apply(func(st State) State { return withPractices(st, practices) })

	goals, err := s.repos.Goals.ListActive(ctx, athleteID)
	if err != nil {
		return s.fail("load_goals", err)
	}
	s.apply(func(st State) State { return withGoals(st, goals) })

	if !ent.CanSeeDrillFrequency() {
		s.apply(withoutDrillFrequency)
		return nil
	}
	freq, err := s.repos.DrillFrequency.Top(ctx, athleteID, DrillFrequencyLimit)
	if err != nil {
		return s.fail("load_drill_frequency", err)
	}
	s.apply(func(st State) State { return withDrillFrequency(st, freq) })
	return nil
}

// SwitchAthlete selects another athlete from the loaded roster. The roster
// itself is not re-fetched.
func (s *Store) SwitchAthlete(ctx context.Context, ent tier.Entitlement, prefs AthletePreference, athleteID string) error {
	if !ent.CanSwitchAthletes() {
		return utils.ErrProRequired
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.hasAthlete(athleteID) {
		return utils.ErrUnknownAthlete
	}
	s.apply(func(st State) State { return withError(withCurrentAthlete(st, athleteID), nil) })
	s.remember(prefs, athleteID)
	return s.loadAthleteData(ctx, ent, athleteID)
}

// QuickLogInput is a validated logging form submission.
type QuickLogInput struct {
	Date       db_models.CalendarDate
	Duration   int
	FocusAreas []string
	Note       string
	Reflection string
	Drills     []string
}

// QuickLog inserts one practice and, for Pro accounts, its drills. Without a
// focus area or a current athlete nothing is sent and ErrNothingToLog or
// ErrNoAthlete is returned.
func (s *Store) QuickLog(ctx context.Context, ent tier.Entitlement, in QuickLogInput) (*response_models.Practice, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current := s.Snapshot().CurrentAthleteID
	if current == "" {
		return nil, utils.ErrNoAthlete
	}
	if len(in.FocusAreas) == 0 {
		return nil, utils.ErrNothingToLog
	}

	done := s.beginSaving()
	defer done()

	row, err := s.repos.Practices.Insert(ctx, repositories.NewPractice{
		AthleteID:       current,
		Date:            in.Date,
		DurationMinutes: in.Duration,
		FocusAreas:      in.FocusAreas,
		Note:            nullIfEmpty(in.Note),
		Reflection:      nullIfEmpty(in.Reflection),
	})
	if err != nil {
		return nil, s.fail("insert_practice", err)
	}

	if ent.CanSelectDrills() && len(in.Drills) > 0 {
		if err := s.attachDrills(ctx, row.ID, in.Drills); err != nil {
			return nil, s.fail("insert_drills", err)
		}
	}

	s.apply(func(st State) State { return withLoggedPractice(st, *row, s.clock()) })
	practice := response_models.PracticeFromRow(*row)
	return &practice, nil
}

func (s *Store) attachDrills(ctx context.Context, sessionID string, drills []string) error {
	if s.mode == DrillInsertBatch {
		return s.repos.Practices.InsertDrills(ctx, sessionID, drills)
	}
	for _, drillID := range drills {
		if err := s.repos.Practices.InsertDrill(ctx, sessionID, drillID); err != nil {
			return err
		}
	}
	return nil
}

// SaveGoal creates, updates or deletes the active goal for one skill. Empty
// text deletes; with no existing goal that is a no-op and nothing is sent.
// On the free tier a new goal first deactivates every other active goal.
func (s *Store) SaveGoal(ctx context.Context, ent tier.Entitlement, skill catalog.FocusArea, text string) error {
	if !skill.Valid() {
		return utils.ErrInvalidSkill
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	snap := s.Snapshot()
	if snap.CurrentAthleteID == "" {
		return utils.ErrNoAthlete
	}
	text = strings.TrimSpace(text)
	existing := snap.Goals[string(skill)]

	if text == "" && existing == nil {
		return nil
	}
	if text != "" && existing == nil && ent.Pro && snap.Goals.ActiveCount() >= ent.GoalLimit() {
		return utils.ErrGoalLimit
	}

	done := s.beginSaving()
	defer done()

	switch {
	case text == "":
		if err := s.repos.Goals.Delete(ctx, existing.ID); err != nil {
			return s.fail("delete_goal", err)
		}
		s.apply(func(st State) State { return withGoalRemoved(st, skill) })
		return nil

	case existing != nil:
		if err := s.repos.Goals.UpdateText(ctx, existing.ID, text); err != nil {
			return s.fail("update_goal", err)
		}
		s.apply(func(st State) State { return withGoalText(st, skill, text) })
		return nil
	}

	if !ent.Pro {
		for _, area := range catalog.FocusAreas {
			other := snap.Goals[string(area)]
			if area == skill || other == nil {
				continue
			}
			if err := s.repos.Goals.Deactivate(ctx, other.ID); err != nil {
				return s.fail("deactivate_goal", err)
			}
			s.apply(func(st State) State { return withGoalDeactivated(st, other.ID) })
		}
	}

	row, err := s.repos.Goals.Insert(ctx, snap.CurrentAthleteID, string(skill), text)
	if err != nil {
		return s.fail("insert_goal", err)
	}
	s.apply(func(st State) State { return withGoalAdded(st, *row) })
	return nil
}

// AddAthlete creates an athlete and makes it current. Free accounts keep a
// single athlete.
func (s *Store) AddAthlete(ctx context.Context, ent tier.Entitlement, prefs AthletePreference, name string) (*db_models.Athlete, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrInvalidAthleteName
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if n := len(s.Snapshot().Athletes); n >= ent.AthleteLimit() {
		if !ent.Pro {
			return nil, utils.ErrProRequired
		}
		return nil, utils.ErrAthleteLimit
	}

	done := s.beginSaving()
	defer done()

	athlete, err := s.repos.Athletes.Insert(ctx, s.userID, name)
	if err != nil {
		return nil, s.fail("insert_athlete", err)
	}
	s.apply(func(st State) State { return withAthleteAdded(st, *athlete) })
	s.remember(prefs, athlete.ID)
	return athlete, nil
}

func (s *Store) hasAthlete(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.state.Athletes {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) remember(prefs AthletePreference, athleteID string) {
	if prefs == nil {
		return
	}
	if err := prefs.RememberAthlete(athleteID); err != nil {
		s.logger.Warn("could not persist selected athlete", zap.String("athlete_id", athleteID), zap.Error(err))
	}
}

func nullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
