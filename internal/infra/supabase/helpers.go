package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/infra/resilience"
)

// ============================================================
// Generic PostgREST helpers shared by every table
// ============================================================

// eq renders a PostgREST equality filter with the value escaped.
func eq(column, value string) string {
	return column + "=eq." + url.QueryEscape(value)
}

// selectRows runs a GET and decodes the JSON array into []T.
func selectRows[T any](ctx context.Context, c *Client, op, path string) ([]T, error) {
	var rows []T
	err := c.guard.Read(ctx, op, func(ctx context.Context) error {
		body, err := c.do(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}
		rows = nil
		if len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return resilience.Permanent(fmt.Errorf("decode %s: %w", op, err))
		}
		return nil
	})
	return rows, err
}

// insertRow POSTs one row and decodes the representation PostgREST returns.
func insertRow[T any](ctx context.Context, c *Client, op, table string, data map[string]any) (*T, error) {
	var out *T
	err := c.guard.Write(ctx, op, func(ctx context.Context) error {
		body, err := c.do(ctx, http.MethodPost, table, data, "return=representation")
		if err != nil {
			return err
		}
		out, err = firstRow[T](body, op)
		if err != nil {
			return err
		}
		if out == nil {
			return fmt.Errorf("%s: empty representation", op)
		}
		return nil
	})
	return out, err
}

// updateRow PATCHes the row matching id and userID. No row is not-found.
func updateRow[T any](ctx context.Context, c *Client, op, table, resource, userID, id string, data map[string]any) (*T, error) {
	var out *T
	path := fmt.Sprintf("%s?%s&%s", table, eq("id", id), eq("user_id", userID))
	err := c.guard.Write(ctx, op, func(ctx context.Context) error {
		body, err := c.do(ctx, http.MethodPatch, path, data, "return=representation")
		if err != nil {
			return err
		}
		out, err = firstRow[T](body, op)
		if err != nil {
			return err
		}
		if out == nil {
			return &domain.ErrNotFound{Resource: resource, ID: id}
		}
		return nil
	})
	return out, err
}

// deleteRow removes the row matching id and userID. No row is not-found.
func deleteRow(ctx context.Context, c *Client, op, table, resource, userID, id string) error {
	path := fmt.Sprintf("%s?%s&%s", table, eq("id", id), eq("user_id", userID))
	return c.guard.Write(ctx, op, func(ctx context.Context) error {
		body, err := c.do(ctx, http.MethodDelete, path, nil, "return=representation")
		if err != nil {
			return err
		}
		var gone []struct {
			ID string `json:"id"`
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &gone); err != nil {
				return fmt.Errorf("decode %s: %w", op, err)
			}
		}
		if len(gone) == 0 {
			return &domain.ErrNotFound{Resource: resource, ID: id}
		}
		return nil
	})
}

// decoded reports a row that arrived but could not be mapped as a store
// failure, so it is never silently dropped from totals.
func decoded[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, &domain.ErrExternalService{Service: "supabase", Err: err}
	}
	return v, nil
}

func firstRow[T any](body []byte, op string) (*T, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
