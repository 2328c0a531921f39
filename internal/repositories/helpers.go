package repositories

import (
	"errors"
	"fmt"

	"practicelog/internal/gateway"
)

var errNoRowReturned = errors.New("backend returned no row")

func firstRow[T any](rows gateway.Rows, collection string) (*T, error) {
	var out []T
	if err := rows.Decode(&out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", collection, errNoRowReturned)
	}
	return &out[0], nil
}

func decodeAll[T any](rows gateway.Rows) ([]T, error) {
	out := []T{}
	if err := rows.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
