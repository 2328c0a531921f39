package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const restPath = "/rest/v1/"

type postgrestGateway struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  *zap.Logger
}

// NewPostgREST builds a gateway for <serviceURL>/rest/v1. The client carries
// no timeout of its own; callers bound a request through ctx when they need to.
func NewPostgREST(serviceURL, anonKey string, client *http.Client, logger *zap.Logger) (Gateway, error) {
	u, err := url.Parse(strings.TrimRight(serviceURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid service url %q", serviceURL)
	}
	if anonKey == "" {
		return nil, fmt.Errorf("anonymous key is required")
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgrestGateway{
		baseURL: u.String() + restPath,
		anonKey: anonKey,
		client:  client,
		logger:  logger,
	}, nil
}

func (g *postgrestGateway) Select(ctx context.Context, collection string, q Query) (Rows, error) {
	params := url.Values{}
	params.Set("select", "*")
	encodeFilters(params, q.Filters)
	if q.Order != nil {
		dir := "asc"
		if q.Order.Desc {
			dir = "desc"
		}
		params.Set("order", q.Order.Column+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return g.do(ctx, http.MethodGet, collection, params, nil, "")
}

func (g *postgrestGateway) Insert(ctx context.Context, collection string, rows any, ret Returning) (Rows, error) {
	prefer := "return=minimal"
	if ret == ReturnRepresentation {
		prefer = "return=representation"
	}
	return g.do(ctx, http.MethodPost, collection, nil, rows, prefer)
}

func (g *postgrestGateway) Update(ctx context.Context, collection string, filters []Filter, patch any) (Rows, error) {
	if len(filters) == 0 {
		return nil, ErrUnfiltered
	}
	params := url.Values{}
	encodeFilters(params, filters)
	return g.do(ctx, http.MethodPatch, collection, params, patch, "return=representation")
}

func (g *postgrestGateway) Delete(ctx context.Context, collection string, filters []Filter) error {
	if len(filters) == 0 {
		return ErrUnfiltered
	}
	params := url.Values{}
	encodeFilters(params, filters)
	_, err := g.do(ctx, http.MethodDelete, collection, params, nil, "return=minimal")
	return err
}

func (g *postgrestGateway) do(ctx context.Context, method, collection string, params url.Values, body any, prefer string) (Rows, error) {
	endpoint := g.baseURL + url.PathEscape(collection)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", collection, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	bearer := g.anonKey
	if token, ok := AccessTokenFrom(ctx); ok {
		bearer = token
	}
	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("gateway request failed",
			zap.String("method", method),
			zap.String("collection", collection),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, collection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %w", ErrTransport, collection, err)
	}

	g.logger.Debug("gateway request",
		zap.String("method", method),
		zap.String("collection", collection),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return Rows(raw), nil
}

func decodeError(status int, raw []byte) error {
	be := &Error{Status: status}
	if err := json.Unmarshal(raw, be); err != nil || be.Message == "" {
		be.Message = strings.TrimSpace(string(raw))
	}
	return be
}

func encodeFilters(params url.Values, filters []Filter) {
	for _, f := range filters {
		switch f.Op {
		case OpIs:
			params.Add(f.Column, "is.null")
		default:
			params.Add(f.Column, "eq."+formatValue(f.Value))
		}
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
