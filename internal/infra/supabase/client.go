// Package supabase implements the record store on Supabase's PostgREST API.
// The service-role key is used for every call, so each query filters on
// user_id explicitly instead of relying on row-level security.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/boddenberg/finance-tracker/internal/infra/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

// Client wraps HTTP calls to the Supabase PostgREST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	guard          *resilience.Guard
	logger         *zap.Logger
}

// NewClient creates a Supabase client. An empty serviceRoleKey falls back
// to the anon key for the bearer token.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, guard *resilience.Guard, logger *zap.Logger) *Client {
	if serviceRoleKey == "" {
		serviceRoleKey = apiKey
	}
	if apiKey == "" {
		apiKey = serviceRoleKey
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		guard:          guard,
		logger:         logger,
	}
}

// apiError is a non-2xx PostgREST answer.
type apiError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("supabase %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// retryable reports whether the status is worth another attempt.
func (e *apiError) retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests || e.Status == http.StatusRequestTimeout
}

// do executes one authenticated PostgREST request. body is JSON-encoded
// when non-nil. A 2xx answer returns the raw body.
func (c *Client) do(ctx context.Context, method, path string, body any, prefer string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, resilience.Permanent(fmt.Errorf("encode %s body: %w", path, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		c.logger.Error("supabase: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, resilience.Permanent(err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceRoleKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("supabase: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		apiErr := &apiError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
		if apiErr.retryable() {
			return nil, apiErr
		}
		return nil, resilience.Permanent(apiErr)
	}

	c.logger.Debug("supabase: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return respBody, nil
}

// Ping asks PostgREST for an empty page of the income table.
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := c.startSpan(ctx, "Supabase.Ping", "")
	defer span.End()

	return c.guard.Read(ctx, "ping", func(ctx context.Context) error {
		_, err := c.do(ctx, http.MethodGet, "income?select=id&limit=1", nil, "")
		return err
	})
}

func (c *Client) startSpan(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	if userID != "" {
		span.SetAttributes(attribute.String("user.id", userID))
	}
	return ctx, span
}
