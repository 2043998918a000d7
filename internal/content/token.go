package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer token for API calls.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a token handed over by the login flow. When the token is
// a JWT its expiry is checked locally so an expired session fails fast
// with ErrUnauthorized instead of a round trip. The signature is not
// verified here; the API does that.
type StaticToken struct {
	Value string
	Now   func() time.Time
}

func (t StaticToken) Token() (string, error) {
	v := strings.TrimSpace(t.Value)
	if v == "" {
		return "", nil
	}

	exp, ok := tokenExpiry(v)
	if !ok {
		return v, nil
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	if !now().Before(exp) {
		return "", fmt.Errorf("%w: token expired at %s", ErrUnauthorized, exp.Format(time.RFC3339))
	}
	return v, nil
}

// tokenExpiry extracts the exp claim from a JWT without verifying it.
func tokenExpiry(raw string) (time.Time, bool) {
	if strings.Count(raw, ".") != 2 {
		return time.Time{}, false
	}
	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
