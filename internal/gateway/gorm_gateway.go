package gateway

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"practicelog/internal/models/db_models"
)

type collection struct {
	model    reflect.Type
	readOnly bool
}

// Collections maps collection names onto the row models the direct database
// gateway reads and writes.
var Collections = map[string]collection{
	"profiles":        {model: reflect.TypeOf(db_models.Profile{})},
	"athletes":        {model: reflect.TypeOf(db_models.Athlete{})},
	"sessions":        {model: reflect.TypeOf(db_models.PracticeSession{})},
	"session_drills":  {model: reflect.TypeOf(db_models.SessionDrill{})},
	"goals":           {model: reflect.TypeOf(db_models.Goal{})},
	"drill_frequency": {model: reflect.TypeOf(db_models.DrillFrequency{}), readOnly: true},
}

type gormGateway struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGorm serves the same contract straight from a database. There is no
// row-level policy in front of it, so callers must scope every query
// themselves.
func NewGorm(db *gorm.DB, logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gormGateway{db: db, logger: logger}
}

func (g *gormGateway) Select(ctx context.Context, name string, q Query) (Rows, error) {
	c, err := lookup(name, false)
	if err != nil {
		return nil, err
	}
	slice := reflect.New(reflect.SliceOf(c.model))
	tx := applyFilters(g.db.WithContext(ctx).Model(reflect.New(c.model).Interface()), q.Filters)
	if q.Order != nil {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.Order.Column}, Desc: q.Order.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(slice.Interface()).Error; err != nil {
		return nil, g.classify("select", name, err)
	}
	return marshalRows(slice.Elem().Interface())
}

func (g *gormGateway) Insert(ctx context.Context, name string, rows any, ret Returning) (Rows, error) {
	c, err := lookup(name, true)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode %s body: %w", name, err)
	}
	slice := reflect.New(reflect.SliceOf(c.model))
	if len(payload) > 0 && payload[0] == '[' {
		err = json.Unmarshal(payload, slice.Interface())
	} else {
		one := reflect.New(c.model)
		if err = json.Unmarshal(payload, one.Interface()); err == nil {
			slice.Elem().Set(reflect.Append(slice.Elem(), one.Elem()))
		}
	}
	if err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Code: "PGRST102", Message: err.Error()}
	}
	if slice.Elem().Len() == 0 {
		return nil, nil
	}
	if err := g.db.WithContext(ctx).Create(slice.Interface()).Error; err != nil {
		return nil, g.classify("insert", name, err)
	}
	if ret == ReturnMinimal {
		return nil, nil
	}
	return marshalRows(slice.Elem().Interface())
}

func (g *gormGateway) Update(ctx context.Context, name string, filters []Filter, patch any) (Rows, error) {
	if len(filters) == 0 {
		return nil, ErrUnfiltered
	}
	c, err := lookup(name, true)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode %s patch: %w", name, err)
	}
	values := map[string]any{}
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Code: "PGRST102", Message: err.Error()}
	}
	model := reflect.New(c.model).Interface()
	if err := applyFilters(g.db.WithContext(ctx).Model(model), filters).Updates(values).Error; err != nil {
		return nil, g.classify("update", name, err)
	}
	return g.Select(ctx, name, Query{Filters: filters})
}

func (g *gormGateway) Delete(ctx context.Context, name string, filters []Filter) error {
	if len(filters) == 0 {
		return ErrUnfiltered
	}
	c, err := lookup(name, true)
	if err != nil {
		return err
	}
	model := reflect.New(c.model).Interface()
	if err := applyFilters(g.db.WithContext(ctx), filters).Delete(model).Error; err != nil {
		return g.classify("delete", name, err)
	}
	return nil
}

func lookup(name string, write bool) (collection, error) {
	c, ok := Collections[name]
	if !ok {
		return collection{}, &Error{Status: http.StatusNotFound, Code: "42P01", Message: fmt.Sprintf("relation %q does not exist", name)}
	}
	if write && c.readOnly {
		return collection{}, &Error{Status: http.StatusMethodNotAllowed, Code: "PGRST205", Message: fmt.Sprintf("%s is read-only", name)}
	}
	return c, nil
}

func applyFilters(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column}
		if f.Op == OpIs {
			tx = tx.Where(clause.Eq{Column: col, Value: nil})
			continue
		}
		tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
	}
	return tx
}

func marshalRows(v any) (Rows, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	return Rows(raw), nil
}

// classify separates connection-level failures from statements the database
// rejected.
func (g *gormGateway) classify(op, name string, err error) error {
	g.logger.Warn("database statement failed",
		zap.String("op", op),
		zap.String("collection", name),
		zap.Error(err))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, op, name, err)
	}
	return &Error{Status: http.StatusBadRequest, Message: err.Error()}
}
