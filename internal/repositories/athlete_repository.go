package repositories

import (
	"context"

	"practicelog/internal/gateway"
	"practicelog/internal/models/db_models"
)

type AthleteRepository interface {
	ListActive(ctx context.Context, userID string, limit int) ([]db_models.Athlete, error)
	Insert(ctx context.Context, userID, name string) (*db_models.Athlete, error)
}

type athleteRepository struct {
	gw gateway.Gateway
}

func NewAthleteRepository(gw gateway.Gateway) AthleteRepository {
	return &athleteRepository{gw: gw}
}

func (a *athleteRepository) ListActive(ctx context.Context, userID string, limit int) ([]db_models.Athlete, error) {
	rows, err := a.gw.Select(ctx, "athletes", gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("user_id", userID), gateway.IsNull("archived_at")},
		Order:   &gateway.Order{Column: "created_at"},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[db_models.Athlete](rows)
}

type newAthleteRow struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (a *athleteRepository) Insert(ctx context.Context, userID, name string) (*db_models.Athlete, error) {
	rows, err := a.gw.Insert(ctx, "athletes", newAthleteRow{UserID: userID, Name: name}, gateway.ReturnRepresentation)
	if err != nil {
		return nil, err
	}
	return firstRow[db_models.Athlete](rows, "athletes")
}
