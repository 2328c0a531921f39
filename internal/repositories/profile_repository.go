package repositories

import (
	"context"

	"practicelog/internal/gateway"
	"practicelog/internal/models/db_models"
)

type ProfileRepository interface {
	// FindByID returns nil, nil when no profile row is visible.
	FindByID(ctx context.Context, id string) (*db_models.Profile, error)
}

type profileRepository struct {
	gw gateway.Gateway
}

func NewProfileRepository(gw gateway.Gateway) ProfileRepository {
	return &profileRepository{gw: gw}
}

func (p *profileRepository) FindByID(ctx context.Context, id string) (*db_models.Profile, error) {
	rows, err := p.gw.Select(ctx, "profiles", gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	profiles, err := decodeAll[db_models.Profile](rows)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return &profiles[0], nil
}
