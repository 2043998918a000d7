package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hejvi/hejvi/internal/content"
	"github.com/hejvi/hejvi/internal/logging"
	"github.com/hejvi/hejvi/internal/media"
)

// hashPrefix is the prefix content hashes carry in their canonical form.
const hashPrefix = "el-"

// Resolution is a playable reaction video.
type Resolution struct {
	URL       string
	Thumbnail string
	Kind      media.Kind
	// Via names the step that produced the URL, e.g. "hash:el-abc".
	Via string
	// Attempts lists every lookup tried, in order.
	Attempts []string
	// Cached is true when the hash lookup was answered from the cache.
	Cached bool
}

// NotFoundError is returned when no step of the fallback chain produced a
// playable URL.
type NotFoundError struct {
	Branch   Branch
	Attempts []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("response video not found for %s branch (tried %s)",
		e.Branch, strings.Join(e.Attempts, ", "))
}

// HashVariants returns the lookup keys tried for a response hash, in order:
// the hash as given, the prefixed form, then both with underscores turned
// into hyphens.
func HashVariants(hash string) []string {
	hyphen := strings.ReplaceAll(hash, "_", "-")
	candidates := []string{hash}
	if strings.HasPrefix(hash, hashPrefix) {
		candidates = append(candidates, strings.TrimPrefix(hash, hashPrefix), hyphen, strings.TrimPrefix(hyphen, hashPrefix))
	} else {
		candidates = append(candidates, hashPrefix+hash, hyphen, hashPrefix+hyphen)
	}

	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Resolver turns a branch target into a playable URL through an ordered
// chain of lookups. Lookups run one at a time; the first success wins.
type Resolver struct {
	Client     content.Client
	Cache      *Cache
	Normalizer media.Normalizer
	Pools      GenericPools
	Logger     *logging.Logger
}

// chain collects the attempts of one resolution.
type chain struct {
	attempts []string
	logger   *logging.Logger
}

func (c *chain) try(name string) {
	c.attempts = append(c.attempts, name)
	c.logger.Debug("resolve step", "try", name)
}

// Resolve finds the reaction video for branch b of item. pl is the loaded
// playlist, searched before the API for explicit element targets.
func (r *Resolver) Resolve(ctx context.Context, pl *Playlist, item Item, b Branch) (Resolution, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("item", item.Key, "branch", b.String())
	c := &chain{logger: logger}
	target := item.Target(b)

	found := func(url, thumb, via string, cached bool) (Resolution, error) {
		url = r.Normalizer.Normalize(url)
		logger.Debug("resolved", "via", via, "url", url)
		return Resolution{
			URL:       url,
			Thumbnail: r.Normalizer.Normalize(thumb),
			Kind:      media.KindOf(url),
			Via:       via,
			Attempts:  c.attempts,
			Cached:    cached,
		}, nil
	}

	switch target.Kind {
	case TargetElement:
		if i := pl.ElementByID(target.ElementID); i >= 0 {
			name := "playlist:" + strconv.FormatInt(target.ElementID, 10)
			c.try(name)
			if it := pl.At(i); it.MediaURL != "" {
				return found(it.MediaURL, it.ThumbnailURL, name, false)
			}
		}
		if res, ok, err := r.byID(ctx, c, "id", target.ElementID); err != nil || ok {
			if ok {
				return found(res.URL, res.Thumbnail, c.last(), false)
			}
			return Resolution{}, err
		}

	case TargetResponseHash:
		entry, cached, err := r.Cache.Do(target.ResponseHash, func() (CacheEntry, error) {
			return r.byHash(ctx, c, target.ResponseHash)
		})
		if cached {
			c.try("cache:" + target.ResponseHash)
		}
		if err == nil {
			via := c.last()
			if via == "" {
				// Shared the flight of a concurrent lookup.
				via = "shared:" + target.ResponseHash
			}
			return found(entry.URL, entry.Thumbnail, via, cached)
		}
		if errors.Is(err, content.ErrUnauthorized) || ctx.Err() != nil {
			return Resolution{}, err
		}
	}

	if id := item.CompanionID(b); id != 0 {
		if res, ok, err := r.byID(ctx, c, "companion", id); err != nil || ok {
			if ok {
				return found(res.URL, res.Thumbnail, c.last(), false)
			}
			return Resolution{}, err
		}
	}

	for _, id := range r.Pools.For(b) {
		if res, ok, err := r.byID(ctx, c, "generic", id); err != nil || ok {
			if ok {
				return found(res.URL, res.Thumbnail, c.last(), false)
			}
			return Resolution{}, err
		}
	}

	logger.Warn("response video not found", "attempts", strings.Join(c.attempts, ","))
	return Resolution{}, &NotFoundError{Branch: b, Attempts: c.attempts}
}

func (c *chain) last() string {
	if len(c.attempts) == 0 {
		return ""
	}
	return c.attempts[len(c.attempts)-1]
}

// byID fetches one element by id. It returns ok=false with a nil error
// when the chain should move on, and a non-nil error only when the whole
// chain must stop.
func (r *Resolver) byID(ctx context.Context, c *chain, label string, id int64) (*content.Element, bool, error) {
	c.try(label + ":" + strconv.FormatInt(id, 10))
	e, err := r.Client.ElementByID(ctx, id)
	return r.check(ctx, c, e, err)
}

// byHash tries every variant of hash in order.
func (r *Resolver) byHash(ctx context.Context, c *chain, hash string) (CacheEntry, error) {
	var lastErr error
	for _, v := range HashVariants(hash) {
		c.try("hash:" + v)
		e, err := r.Client.ElementByHash(ctx, v)
		e, ok, err := r.check(ctx, c, e, err)
		if err != nil {
			return CacheEntry{}, err
		}
		if ok {
			return CacheEntry{URL: e.URL, Thumbnail: e.Thumbnail}, nil
		}
		lastErr = fmt.Errorf("hash %s: no playable element", v)
	}
	return CacheEntry{}, lastErr
}

func (r *Resolver) check(ctx context.Context, c *chain, e *content.Element, err error) (*content.Element, bool, error) {
	switch {
	case errors.Is(err, content.ErrUnauthorized):
		return nil, false, err
	case ctx.Err() != nil:
		// The overlay was closed; nobody is waiting for the answer.
		return nil, false, ctx.Err()
	case err != nil:
		c.logger.Debug("resolve step failed", "step", c.last(), "err", err)
		return nil, false, nil
	case e == nil || strings.TrimSpace(e.URL) == "":
		c.logger.Debug("resolve step has no media", "step", c.last())
		return nil, false, nil
	}
	return e, true, nil
}
