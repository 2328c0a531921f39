// Package gateway translates select/insert/update/delete calls with simple
// filter predicates into requests against the hosted backend. It keeps no
// cache; every call is a round trip.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"practicelog/pkg/utils"
)

type Operator string

const (
	OpEq Operator = "eq"
	OpIs Operator = "is"
)

// Filter is one column predicate: column=eq.value or column=is.null.
type Filter struct {
	Column string
	Op     Operator
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func IsNull(column string) Filter {
	return Filter{Column: column, Op: OpIs, Value: nil}
}

type Order struct {
	Column string
	Desc   bool
}

type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

type Returning int

const (
	ReturnMinimal Returning = iota
	ReturnRepresentation
)

// Rows is the raw JSON array returned by the backend.
type Rows []byte

// Decode unmarshals the rows into out. Empty rows leave out untouched.
func (r Rows) Decode(out any) error {
	if len(r) == 0 {
		return nil
	}
	if err := json.Unmarshal(r, out); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

type Gateway interface {
	Select(ctx context.Context, collection string, q Query) (Rows, error)
	// Insert writes one row or a slice of rows in a single request.
	Insert(ctx context.Context, collection string, rows any, ret Returning) (Rows, error)
	// Update patches every row matching the filters and returns them.
	Update(ctx context.Context, collection string, filters []Filter, patch any) (Rows, error)
	Delete(ctx context.Context, collection string, filters []Filter) error
}

// ErrTransport marks failures that never reached the backend or whose
// response could not be read. Callers treat them as fatal to the operation.
var ErrTransport = fmt.Errorf("gateway transport failure: %w", utils.ErrBackendUnavailable)

// ErrUnfiltered guards against whole-collection writes.
var ErrUnfiltered = errors.New("update and delete require at least one filter")

// Error is a request the backend received and rejected.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.Status); text != "" {
		return text
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

func (e *Error) BackendStatus() int  { return e.Status }
func (e *Error) BackendCode() string { return e.Code }

var _ utils.BackendRejection = (*Error)(nil)

// AsBackendError reports whether err is a backend rejection.
func AsBackendError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

type ctxKey int

const accessTokenKey ctxKey = iota

// WithAccessToken attaches the signed-in user's bearer token to ctx. Calls
// made without one authenticate with the public anonymous key.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}
