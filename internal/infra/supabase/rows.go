package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// row is the shape of every table: a key and a JSON document.
type row struct {
	ID   json.RawMessage `json:"id"`
	Data json.RawMessage `json:"data"`
}

type upsertRow struct {
	ID   any `json:"id"`
	Data any `json:"data"`
}

// listDocs scans table, ordered by order (a PostgREST order clause), and
// decodes every data document into T.
func listDocs[T any](ctx context.Context, c *Client, table, order string, limit int) ([]T, error) {
	path := table + "?select=id,data"
	if order != "" {
		path += "&order=" + order
	}
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}

	var out []T
	err := c.exec(ctx, table, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		out, err = decodeDocs[T](body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// getDoc fetches one document by key. A missing row returns nil, nil.
func getDoc[T any](ctx context.Context, c *Client, table, id string) (*T, error) {
	path := fmt.Sprintf("%s?select=id,data&id=eq.%s&limit=1", table, url.QueryEscape(id))

	var out *T
	err := c.exec(ctx, table, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		docs, err := decodeDocs[T](body)
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			out = &docs[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func putDoc(ctx context.Context, c *Client, table string, id any, doc any) error {
	return c.exec(ctx, table, func() error {
		return c.doUpsert(ctx, table, []upsertRow{{ID: id, Data: doc}})
	})
}

func deleteDoc(ctx context.Context, c *Client, table, id string) error {
	return c.exec(ctx, table, func() error {
		return c.doDelete(ctx, fmt.Sprintf("%s?id=eq.%s", table, url.QueryEscape(id)))
	})
}

func decodeDocs[T any](body []byte) ([]T, error) {
	if len(body) == 0 {
		return []T{}, nil
	}
	var rows []row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		var doc T
		if err := json.Unmarshal(r.Data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", string(r.ID), err)
		}
		out = append(out, doc)
	}
	return out, nil
}
