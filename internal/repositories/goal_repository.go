package repositories

import (
	"context"

	"practicelog/internal/gateway"
	"practicelog/internal/models/db_models"
)

type GoalRepository interface {
	ListActive(ctx context.Context, athleteID string) ([]db_models.Goal, error)
	Insert(ctx context.Context, athleteID, skill, text string) (*db_models.Goal, error)
	UpdateText(ctx context.Context, id, text string) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type goalRepository struct {
	gw gateway.Gateway
}

func NewGoalRepository(gw gateway.Gateway) GoalRepository {
	return &goalRepository{gw: gw}
}

func (g *goalRepository) ListActive(ctx context.Context, athleteID string) ([]db_models.Goal, error) {
	rows, err := g.gw.Select(ctx, "goals", gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("athlete_id", athleteID), gateway.Eq("is_active", true)},
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[db_models.Goal](rows)
}

type newGoalRow struct {
	AthleteID string `json:"athlete_id"`
	Skill     string `json:"skill"`
	GoalText  string `json:"goal_text"`
	IsActive  bool   `json:"is_active"`
}

func (g *goalRepository) Insert(ctx context.Context, athleteID, skill, text string) (*db_models.Goal, error) {
	rows, err := g.gw.Insert(ctx, "goals", newGoalRow{
		AthleteID: athleteID,
		Skill:     skill,
		GoalText:  text,
		IsActive:  true,
	}, gateway.ReturnRepresentation)
	if err != nil {
		return nil, err
	}
	return firstRow[db_models.Goal](rows, "goals")
}

func (g *goalRepository) UpdateText(ctx context.Context, id, text string) error {
	_, err := g.gw.Update(ctx, "goals", []gateway.Filter{gateway.Eq("id", id)}, map[string]any{"goal_text": text})
	return err
}

func (g *goalRepository) Deactivate(ctx context.Context, id string) error {
	_, err := g.gw.Update(ctx, "goals", []gateway.Filter{gateway.Eq("id", id)}, map[string]any{"is_active": false})
	return err
}

func (g *goalRepository) Delete(ctx context.Context, id string) error {
	return g.gw.Delete(ctx, "goals", []gateway.Filter{gateway.Eq("id", id)})
}
