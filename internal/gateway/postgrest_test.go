package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practicelog/pkg/utils"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g, err := NewPostgREST(srv.URL, "anon-key", srv.Client(), nil)
	require.NoError(t, err)
	return g
}

func TestSelectEncodesFiltersOrderAndLimit(t *testing.T) {
	var got *http.Request
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`[{"id":"a1","name":"Kate"}]`))
	})

	rows, err := g.Select(context.Background(), "athletes", Query{
		Filters: []Filter{Eq("user_id", "u1"), IsNull("archived_at")},
		Order:   &Order{Column: "created_at"},
		Limit:   1,
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/rest/v1/athletes", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "eq.u1", q.Get("user_id"))
	assert.Equal(t, "is.null", q.Get("archived_at"))
	assert.Equal(t, "created_at.asc", q.Get("order"))
	assert.Equal(t, "1", q.Get("limit"))
	assert.Equal(t, "*", q.Get("select"))

	var out []map[string]string
	require.NoError(t, rows.Decode(&out))
	assert.Equal(t, "Kate", out[0]["name"])
}

func TestBearerFallsBackToAnonKey(t *testing.T) {
	var auth, apikey string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		apikey = r.Header.Get("apikey")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := g.Select(context.Background(), "goals", Query{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer anon-key", auth)
	assert.Equal(t, "anon-key", apikey)

	ctx := WithAccessToken(context.Background(), "user-token")
	_, err = g.Select(ctx, "goals", Query{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", auth)
	assert.Equal(t, "anon-key", apikey)
}

func TestInsertPreferHeader(t *testing.T) {
	var prefer string
	var body []map[string]any
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		raw, _ := io.ReadAll(r.Body)
		body = nil
		_ = json.Unmarshal(raw, &body)
		if prefer == "return=minimal" {
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(raw)
	})

	rows, err := g.Insert(context.Background(), "session_drills", []map[string]any{
		{"session_id": "s1", "drill_id": "tee-work"},
		{"session_id": "s1", "drill_id": "soft-toss"},
	}, ReturnMinimal)
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, "return=minimal", prefer)
	assert.Len(t, body, 2)

	rows, err = g.Insert(context.Background(), "session_drills", []map[string]any{{"drill_id": "x"}}, ReturnRepresentation)
	require.NoError(t, err)
	assert.Equal(t, "return=representation", prefer)
	assert.NotEmpty(t, rows)
}

func TestBackendErrorIsReturnedNotPanicked(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"42501","message":"new row violates row-level security policy","details":null,"hint":null}`))
	})

	_, err := g.Insert(context.Background(), "athletes", map[string]any{"name": "Kate"}, ReturnRepresentation)
	require.Error(t, err)
	be, ok := AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, be.Status)
	assert.Equal(t, "42501", be.Code)
	assert.Equal(t, "new row violates row-level security policy", err.Error())
	assert.False(t, errors.Is(err, ErrTransport))

	var rejection utils.BackendRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusForbidden, rejection.BackendStatus())
}

func TestNonJSONErrorBodyKeepsRawText(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	err := g.Delete(context.Background(), "goals", []Filter{Eq("id", "g1")})
	require.Error(t, err)
	assert.Equal(t, "upstream unavailable", err.Error())
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	g, err := NewPostgREST(srv.URL, "anon-key", srv.Client(), nil)
	require.NoError(t, err)
	srv.Close()

	_, err = g.Select(context.Background(), "goals", Query{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, utils.ErrBackendUnavailable))
	_, ok := AsBackendError(err)
	assert.False(t, ok)
}

func TestUpdateAndDeleteRequireFilters(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s %s", r.Method, r.URL)
	})

	_, err := g.Update(context.Background(), "goals", nil, map[string]any{"is_active": false})
	assert.ErrorIs(t, err, ErrUnfiltered)
	assert.ErrorIs(t, g.Delete(context.Background(), "goals", nil), ErrUnfiltered)
}

func TestUpdateSendsPatch(t *testing.T) {
	var method, prefer, filter string
	var patch map[string]any
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		prefer = r.Header.Get("Prefer")
		filter = r.URL.Query().Get("id")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &patch)
		_, _ = w.Write([]byte(`[{"id":"g1","is_active":false}]`))
	})

	rows, err := g.Update(context.Background(), "goals", []Filter{Eq("id", "g1")}, map[string]any{"is_active": false})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "return=representation", prefer)
	assert.Equal(t, "eq.g1", filter)
	assert.Equal(t, false, patch["is_active"])
	assert.NotEmpty(t, rows)
}

func TestNewPostgRESTValidatesConfig(t *testing.T) {
	_, err := NewPostgREST("not a url", "key", nil, nil)
	assert.Error(t, err)
	_, err = NewPostgREST("https://example.supabase.co", "", nil, nil)
	assert.Error(t, err)
}
