package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const restPrefix = "/rest/v1"

// Select runs a filtered, ordered query against a table and unmarshals
// the row array into dest. Query values use PostgREST operator syntax,
// e.g. user_id=eq.<id>&order=created_at.desc.
func (c *Client) Select(ctx context.Context, token, table string, query url.Values, dest interface{}) error {
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   restPrefix + "/" + table,
		query:  query,
		bearer: token,
		result: dest,
	})
	if err != nil {
		return fmt.Errorf("selecting from %s: %w", table, err)
	}
	return nil
}

// Insert creates one row and unmarshals the created representation into
// dest, which must be a pointer to a slice (the backend returns an array
// even for single inserts).
func (c *Client) Insert(ctx context.Context, token, table string, row interface{}, dest interface{}) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   restPrefix + "/" + table,
		bearer: token,
		prefer: "return=representation",
		body:   row,
		result: dest,
	})
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

// Update patches the row with the given id.
func (c *Client) Update(ctx context.Context, token, table, id string, patch interface{}) error {
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   restPrefix + "/" + table,
		query:  url.Values{"id": {"eq." + id}},
		bearer: token,
		body:   patch,
	})
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", table, id, err)
	}
	return nil
}

// Delete removes the row with the given id. Deleting an id that does not
// exist is not an error: the backend reports success with zero rows.
func (c *Client) Delete(ctx context.Context, token, table, id string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   restPrefix + "/" + table,
		query:  url.Values{"id": {"eq." + id}},
		bearer: token,
	})
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", table, id, err)
	}
	return nil
}
