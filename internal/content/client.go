// Package content talks to the HejVi content API.
package content

import (
	"context"
	"encoding/json"
	"strconv"
)

// Element is a single content element as returned by the API. Raw keeps
// the full "data" object for the feed loader; URL and Thumbnail are the
// two fields every caller needs.
type Element struct {
	ID        int64           `json:"id"`
	HashID    string          `json:"hash_id"`
	URL       string          `json:"url_element"`
	Thumbnail string          `json:"url_thumbnail"`
	Raw       json.RawMessage `json:"-"`
}

// Collection is a course: an ordered list of raw element objects.
type Collection struct {
	HashID   string            `json:"hash_id"`
	Title    string            `json:"title"`
	Elements []json.RawMessage `json:"elements"`
	Raw      json.RawMessage   `json:"-"`
}

// Client is the content API surface the feed depends on.
type Client interface {
	ElementByHash(ctx context.Context, hash string) (*Element, error)
	ElementByID(ctx context.Context, id int64) (*Element, error)
	CollectionByHash(ctx context.Context, hash string) (*Collection, error)
}

// Operation names used in logs, fetch events and errors.
const (
	OpElementByHash    = "element_by_hash"
	OpElementByID      = "element_by_id"
	OpCollectionByHash = "collection_by_hash"
)

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
