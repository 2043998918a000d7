// Package media holds the media URL conventions of the HejVi platform and
// the streaming decoder used for segmented (HLS) playlists.
package media

import (
	"net/url"
	"path"
	"strings"
)

// Kind distinguishes direct progressive files from segmented streams.
type Kind int

const (
	Progressive Kind = iota
	Streaming
)

func (k Kind) String() string {
	if k == Streaming {
		return "streaming"
	}
	return "progressive"
}

// IsStreaming reports whether u points at a segmented-streaming playlist.
// Only the path extension counts; query and fragment are ignored.
func IsStreaming(u string) bool {
	p := u
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.EqualFold(path.Ext(p), ".m3u8")
}

// KindOf classifies a media URL.
func KindOf(u string) Kind {
	if IsStreaming(u) {
		return Streaming
	}
	return Progressive
}

// Normalizer rewrites media URLs into the canonical form the player loads.
type Normalizer struct {
	// Base resolves relative URLs. Its host also serves rewritten media.
	Base *url.URL

	// MediaHost is the asset host whose URLs must go through MediaPrefix.
	MediaHost string

	// MediaPrefix is the API path segment, e.g. "/api/media".
	MediaPrefix string
}

// NewNormalizer parses base and returns a Normalizer.
func NewNormalizer(base, mediaHost, mediaPrefix string) (Normalizer, error) {
	u, err := url.Parse(base)
	if err != nil {
		return Normalizer{}, err
	}
	return Normalizer{
		Base:        u,
		MediaHost:   strings.ToLower(mediaHost),
		MediaPrefix: strings.TrimRight(mediaPrefix, "/"),
	}, nil
}

// Normalize makes raw absolute (https for relative and protocol-relative
// input), percent-encodes its path and routes media-host URLs through the
// API media prefix. Normalize(Normalize(x)) == Normalize(x).
func (n Normalizer) Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		u, err = url.Parse(escapeLoose(raw))
		if err != nil {
			return ""
		}
	}

	if !u.IsAbs() {
		if n.Base == nil {
			return ""
		}
		base := *n.Base
		base.Scheme = "https"
		if !strings.HasPrefix(u.Path, "/") && !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		u = base.ResolveReference(u)
	}

	if n.MediaHost != "" && strings.EqualFold(u.Hostname(), n.MediaHost) && n.MediaPrefix != "" {
		if u.Path != n.MediaPrefix && !strings.HasPrefix(u.Path, n.MediaPrefix+"/") {
			u.Path = n.MediaPrefix + "/" + strings.TrimLeft(u.Path, "/")
			if u.RawPath != "" {
				u.RawPath = n.MediaPrefix + "/" + strings.TrimLeft(u.RawPath, "/")
			}
		}
		if u.Scheme == "http" {
			u.Scheme = "https"
		}
	}

	// RawPath is kept so escaped reserved characters such as %2F survive;
	// String falls back to encoding Path when RawPath is not a valid
	// encoding of it.
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// escapeLoose escapes characters url.Parse rejects in hand-written URLs:
// spaces and '%' signs that don't start a valid escape.
func escapeLoose(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteString("%20")
		case c == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])):
			b.WriteString("%25")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
