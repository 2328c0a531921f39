package repositories

import (
	"context"

	"practicelog/internal/gateway"
	"practicelog/internal/models/db_models"
)

type DrillFrequencyRepository interface {
	Top(ctx context.Context, athleteID string, limit int) ([]db_models.DrillFrequency, error)
}

type drillFrequencyRepository struct {
	gw gateway.Gateway
}

func NewDrillFrequencyRepository(gw gateway.Gateway) DrillFrequencyRepository {
	return &drillFrequencyRepository{gw: gw}
}

func (d *drillFrequencyRepository) Top(ctx context.Context, athleteID string, limit int) ([]db_models.DrillFrequency, error) {
	rows, err := d.gw.Select(ctx, "drill_frequency", gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("athlete_id", athleteID)},
		Order:   &gateway.Order{Column: "usage_count", Desc: true},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[db_models.DrillFrequency](rows)
}
