package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxBody caps how much of a response body is read.
const maxBody = 8 << 20

// HTTPClient implements Client over the HejVi REST API.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.client.Timeout = d }
}

// NewHTTPClient returns a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPClient) ElementByHash(ctx context.Context, hash string) (*Element, error) {
	return h.element(ctx, OpElementByHash, "/elements/hash/"+url.PathEscape(hash))
}

func (h *HTTPClient) ElementByID(ctx context.Context, id int64) (*Element, error) {
	return h.element(ctx, OpElementByID, "/elements/"+idKey(id))
}

func (h *HTTPClient) CollectionByHash(ctx context.Context, hash string) (*Collection, error) {
	const op = OpCollectionByHash
	body, err := h.get(ctx, op, "/collections/hash/"+url.PathEscape(hash))
	if err != nil {
		return nil, err
	}
	if err := validateEnvelope(op, "collection", collectionEnvelopeSchema, body); err != nil {
		return nil, err
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: body, Err: err}
	}
	var c Collection
	if err := json.Unmarshal(env.Data, &c); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: body, Err: err}
	}
	c.Raw = env.Data
	if c.HashID == "" {
		c.HashID = hash
	}
	return &c, nil
}

func (h *HTTPClient) element(ctx context.Context, op, path string) (*Element, error) {
	body, err := h.get(ctx, op, path)
	if err != nil {
		return nil, err
	}
	if err := validateEnvelope(op, "element", elementEnvelopeSchema, body); err != nil {
		return nil, err
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: body, Err: err}
	}
	var e Element
	if err := json.Unmarshal(env.Data, &e); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: body, Err: err}
	}
	e.Raw = env.Data
	return &e, nil
}

// get performs one GET and maps failures onto the package's error types.
func (h *HTTPClient) get(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	if h.tokens != nil {
		tok, err := h.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &ErrTransient{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &ErrTransient{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ErrStatus{Op: op, StatusCode: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &ErrStatus{Op: op, StatusCode: resp.StatusCode, Err: ErrUnauthorized}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &ErrTransient{Op: op, Err: &ErrStatus{Op: op, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}}
	default:
		return nil, &ErrStatus{Op: op, StatusCode: resp.StatusCode, Err: errors.New(snippet(body))}
	}
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
