// Package gatewaytest provides an in-memory gateway.Gateway that records every
// call, for tests that must assert which requests were or were not issued.
package gatewaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"practicelog/internal/gateway"
)

type Call struct {
	Method     string
	Collection string
	Query      gateway.Query
	Body       any
	Token      string
}

// FailFunc decides whether a call fails. Returning nil lets it through.
type FailFunc func(call Call) error

type Memory struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	calls  []Call
	fail   FailFunc
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		tables: map[string][]map[string]any{},
		now:    time.Now,
	}
}

// FailWhen installs a failure hook; nil removes it.
func (m *Memory) FailWhen(fn FailFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fn
}

// Seed inserts rows without recording calls. Values go through JSON so they
// look exactly like backend rows.
func (m *Memory) Seed(collection string, rows ...any) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []map[string]any
	for _, r := range rows {
		out = append(out, m.insertLocked(collection, normalize(r)))
	}
	return out
}

func (m *Memory) Rows(collection string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, len(m.tables[collection]))
	copy(out, m.tables[collection])
	return out
}

func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsTo returns the calls made against one collection, optionally limited
// to one method.
func (m *Memory) CallsTo(collection, method string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Collection == collection && (method == "" || c.Method == method) {
			out = append(out, c)
		}
	}
	return out
}

func (m *Memory) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Memory) record(ctx context.Context, call Call) error {
	token, _ := gateway.AccessTokenFrom(ctx)
	call.Token = token
	m.calls = append(m.calls, call)
	if m.fail != nil {
		return m.fail(call)
	}
	return nil
}

func (m *Memory) Select(ctx context.Context, collection string, q gateway.Query) (gateway.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(ctx, Call{Method: "select", Collection: collection, Query: q}); err != nil {
		return nil, err
	}
	matched := m.matchLocked(collection, q.Filters)
	if q.Order != nil {
		col, desc := q.Order.Column, q.Order.Desc
		sort.SliceStable(matched, func(i, j int) bool {
			if desc {
				return less(matched[j][col], matched[i][col])
			}
			return less(matched[i][col], matched[j][col])
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return marshal(matched)
}

func (m *Memory) Insert(ctx context.Context, collection string, rows any, ret gateway.Returning) (gateway.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(ctx, Call{Method: "insert", Collection: collection, Body: rows}); err != nil {
		return nil, err
	}
	var batch []map[string]any
	raw, _ := json.Marshal(rows)
	if len(raw) > 0 && raw[0] == '[' {
		_ = json.Unmarshal(raw, &batch)
	} else {
		one := map[string]any{}
		_ = json.Unmarshal(raw, &one)
		batch = append(batch, one)
	}
	var inserted []map[string]any
	for _, r := range batch {
		inserted = append(inserted, m.insertLocked(collection, r))
	}
	if ret == gateway.ReturnMinimal {
		return nil, nil
	}
	return marshal(inserted)
}

func (m *Memory) Update(ctx context.Context, collection string, filters []gateway.Filter, patch any) (gateway.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(ctx, Call{Method: "update", Collection: collection, Query: gateway.Query{Filters: filters}, Body: patch}); err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, gateway.ErrUnfiltered
	}
	values := normalize(patch)
	var updated []map[string]any
	for _, row := range m.tables[collection] {
		if matches(row, filters) {
			for k, v := range values {
				row[k] = v
			}
			updated = append(updated, row)
		}
	}
	return marshal(updated)
}

func (m *Memory) Delete(ctx context.Context, collection string, filters []gateway.Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(ctx, Call{Method: "delete", Collection: collection, Query: gateway.Query{Filters: filters}}); err != nil {
		return err
	}
	if len(filters) == 0 {
		return gateway.ErrUnfiltered
	}
	kept := m.tables[collection][:0]
	for _, row := range m.tables[collection] {
		if !matches(row, filters) {
			kept = append(kept, row)
		}
	}
	m.tables[collection] = kept
	return nil
}

func (m *Memory) insertLocked(collection string, row map[string]any) map[string]any {
	if _, ok := row["id"]; !ok || row["id"] == "" {
		if collection != "drill_frequency" {
			row["id"] = uuid.NewString()
		}
	}
	if _, ok := row["created_at"]; !ok && collection != "profiles" && collection != "drill_frequency" {
		row["created_at"] = m.now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
	}
	m.tables[collection] = append(m.tables[collection], row)
	return row
}

func (m *Memory) matchLocked(collection string, filters []gateway.Filter) []map[string]any {
	var out []map[string]any
	for _, row := range m.tables[collection] {
		if matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row map[string]any, filters []gateway.Filter) bool {
	for _, f := range filters {
		v, present := row[f.Column]
		if f.Op == gateway.OpIs {
			if present && v != nil {
				return false
			}
			continue
		}
		if !present || fmt.Sprint(v) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func less(a, b any) bool {
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func normalize(v any) map[string]any {
	raw, _ := json.Marshal(v)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return out
}

func marshal(rows []map[string]any) (gateway.Rows, error) {
	if rows == nil {
		rows = []map[string]any{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	return gateway.Rows(raw), nil
}
