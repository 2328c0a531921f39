package repositories

import (
	"context"

	"practicelog/internal/gateway"
	"practicelog/internal/models/db_models"
)

// NewPractice is the insert payload for a sessions row. Empty note and
// reflection are sent as null.
type NewPractice struct {
	AthleteID       string                 `json:"athlete_id"`
	Date            db_models.CalendarDate `json:"date"`
	DurationMinutes int                    `json:"duration_minutes"`
	FocusAreas      []string               `json:"focus_areas"`
	Note            *string                `json:"note"`
	Reflection      *string                `json:"reflection"`
}

type PracticeRepository interface {
	ListRecent(ctx context.Context, athleteID string, limit int) ([]db_models.PracticeSession, error)
	Insert(ctx context.Context, practice NewPractice) (*db_models.PracticeSession, error)
	// InsertDrill writes one session_drills row.
	InsertDrill(ctx context.Context, sessionID, drillID string) error
	// InsertDrills writes all rows in a single request.
	InsertDrills(ctx context.Context, sessionID string, drillIDs []string) error
}

type practiceRepository struct {
	gw gateway.Gateway
}

func NewPracticeRepository(gw gateway.Gateway) PracticeRepository {
	return &practiceRepository{gw: gw}
}

func (p *practiceRepository) ListRecent(ctx context.Context, athleteID string, limit int) ([]db_models.PracticeSession, error) {
	rows, err := p.gw.Select(ctx, "sessions", gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("athlete_id", athleteID)},
		Order:   &gateway.Order{Column: "date", Desc: true},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[db_models.PracticeSession](rows)
}

func (p *practiceRepository) Insert(ctx context.Context, practice NewPractice) (*db_models.PracticeSession, error) {
	rows, err := p.gw.Insert(ctx, "sessions", practice, gateway.ReturnRepresentation)
	if err != nil {
		return nil, err
	}
	return firstRow[db_models.PracticeSession](rows, "sessions")
}

type newDrillRow struct {
	SessionID string `json:"session_id"`
	DrillID   string `json:"drill_id"`
}

func (p *practiceRepository) InsertDrill(ctx context.Context, sessionID, drillID string) error {
	_, err := p.gw.Insert(ctx, "session_drills", newDrillRow{SessionID: sessionID, DrillID: drillID}, gateway.ReturnMinimal)
	return err
}

func (p *practiceRepository) InsertDrills(ctx context.Context, sessionID string, drillIDs []string) error {
	if len(drillIDs) == 0 {
		return nil
	}
	rows := make([]newDrillRow, 0, len(drillIDs))
	for _, id := range drillIDs {
		rows = append(rows, newDrillRow{SessionID: sessionID, DrillID: id})
	}
	_, err := p.gw.Insert(ctx, "session_drills", rows, gateway.ReturnMinimal)
	return err
}
