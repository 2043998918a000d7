package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api", StaticToken{Value: "secret"}, WithHTTPClient(srv.Client()))
}

func TestElementByHash(t *testing.T) {
	c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/elements/hash/el-abc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":42,"hash_id":"el-abc","url_element":"https://cdn.test/a.mp4","url_thumbnail":"https://cdn.test/a.jpg","type":1}}`))
	})

	e, err := c.ElementByHash(context.Background(), "el-abc")
	require.NoError(t, err)
	assert.Equal(t, int64(42), e.ID)
	assert.Equal(t, "https://cdn.test/a.mp4", e.URL)
	assert.Equal(t, "https://cdn.test/a.jpg", e.Thumbnail)
	assert.Contains(t, string(e.Raw), `"type":1`)
}

func TestElementByID(t *testing.T) {
	c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/elements/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":42,"url_element":"https://cdn.test/a.mp4","url_thumbnail":null}}`))
	})

	e, err := c.ElementByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/a.mp4", e.URL)
	assert.Empty(t, e.Thumbnail)
}

func TestCollectionByHash(t *testing.T) {
	c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collections/hash/col-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"title":"Kurs","elements":[{"hash_id":"a"},{"hash_id":"b"}]}}`))
	})

	col, err := c.CollectionByHash(context.Background(), "col-1")
	require.NoError(t, err)
	assert.Equal(t, "col-1", col.HashID)
	assert.Equal(t, "Kurs", col.Title)
	assert.Len(t, col.Elements, 2)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"not found", http.StatusNotFound, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
			var st *ErrStatus
			require.ErrorAs(t, err, &st)
			assert.Equal(t, 404, st.StatusCode)
		}},
		{"unauthorized", http.StatusUnauthorized, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{"forbidden", http.StatusForbidden, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{"server error", http.StatusBadGateway, func(t *testing.T, err error) {
			assert.True(t, IsTransient(err))
		}},
		{"bad request", http.StatusBadRequest, func(t *testing.T, err error) {
			assert.False(t, IsTransient(err))
			assert.Contains(t, err.Error(), "nope")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			})
			_, err := c.ElementByHash(context.Background(), "x")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestInvalidEnvelope(t *testing.T) {
	c := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"elements":"not-a-list"}}`))
	})
	_, err := c.CollectionByHash(context.Background(), "col")
	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, OpCollectionByHash, inv.Op)
}

func TestNetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewHTTPClient(srv.URL, nil)
	_, err := c.ElementByID(context.Background(), 1)
	assert.True(t, IsTransient(err))
}

func TestStaticToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sign := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix(), "sub": "learner"})
		s, err := tok.SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}

	t.Run("opaque token passes", func(t *testing.T) {
		v, err := StaticToken{Value: "pin-session-123"}.Token()
		require.NoError(t, err)
		assert.Equal(t, "pin-session-123", v)
	})

	t.Run("valid jwt", func(t *testing.T) {
		raw := sign(now.Add(time.Hour))
		v, err := StaticToken{Value: raw, Now: func() time.Time { return now }}.Token()
		require.NoError(t, err)
		assert.Equal(t, raw, v)
	})

	t.Run("expired jwt", func(t *testing.T) {
		raw := sign(now.Add(-time.Minute))
		_, err := StaticToken{Value: raw, Now: func() time.Time { return now }}.Token()
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("expired token blocks call", func(t *testing.T) {
		called := false
		c := apiServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		c.tokens = StaticToken{Value: sign(time.Now().Add(-time.Hour))}
		_, err := c.ElementByHash(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, called)
	})
}
