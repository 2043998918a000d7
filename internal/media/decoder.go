package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/grafov/m3u8"
)

// ErrDecoderDestroyed is returned by Attach after Destroy.
var ErrDecoderDestroyed = errors.New("decoder destroyed")

// StreamInfo describes an attached segmented stream.
type StreamInfo struct {
	URL      string        // media playlist actually attached
	Duration time.Duration // sum of segment durations (zero for live)
	Segments int
	Variants int  // renditions in the master playlist, 0 for a bare media playlist
	Live     bool // no end-list tag
}

// Decoder attaches a segmented stream to a media element. One decoder
// instance serves one element and must be destroyed when the element is
// detached.
type Decoder interface {
	Attach(ctx context.Context, src string) (StreamInfo, error)
	Destroy()
}

// DecoderLoader lazily constructs decoders. The first Load pays the
// loading cost; later calls reuse the loaded constructor.
type DecoderLoader struct {
	once       sync.Once
	load       func() func() Decoder
	newDecoder func() Decoder
	loads      int
}

// NewDecoderLoader returns a loader producing HLS decoders that fetch
// playlists with client (http.DefaultClient when nil).
func NewDecoderLoader(client *http.Client) *DecoderLoader {
	return &DecoderLoader{load: func() func() Decoder {
		return func() Decoder { return NewHLSDecoder(client) }
	}}
}

// NewDecoderLoaderFunc returns a loader whose decoders come from fn.
func NewDecoderLoaderFunc(fn func() Decoder) *DecoderLoader {
	return &DecoderLoader{load: func() func() Decoder { return fn }}
}

// Load returns a fresh decoder instance.
func (l *DecoderLoader) Load() Decoder {
	l.once.Do(func() {
		l.loads++
		l.newDecoder = l.load()
	})
	return l.newDecoder()
}

// Loads reports how many times the decoder implementation was loaded.
func (l *DecoderLoader) Loads() int {
	return l.loads
}

// HLSDecoder parses HLS playlists. Master playlists are followed to their
// highest-bandwidth variant.
type HLSDecoder struct {
	client *http.Client

	mu        sync.Mutex
	destroyed bool
	info      StreamInfo
}

// NewHLSDecoder returns a decoder fetching with client.
func NewHLSDecoder(client *http.Client) *HLSDecoder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HLSDecoder{client: client}
}

func (d *HLSDecoder) Attach(ctx context.Context, src string) (StreamInfo, error) {
	if d.isDestroyed() {
		return StreamInfo{}, ErrDecoderDestroyed
	}

	pl, kind, err := d.fetch(ctx, src)
	if err != nil {
		return StreamInfo{}, err
	}

	info := StreamInfo{URL: src}
	if kind == m3u8.MASTER {
		master := pl.(*m3u8.MasterPlaylist)
		variant := bestVariant(master)
		if variant == nil {
			return StreamInfo{}, fmt.Errorf("master playlist %s has no variants", src)
		}
		info.Variants = len(master.Variants)

		ref, err := resolveRef(src, variant.URI)
		if err != nil {
			return StreamInfo{}, err
		}
		pl, kind, err = d.fetch(ctx, ref)
		if err != nil {
			return StreamInfo{}, err
		}
		if kind != m3u8.MEDIA {
			return StreamInfo{}, fmt.Errorf("variant %s is not a media playlist", ref)
		}
		info.URL = ref
	}

	media := pl.(*m3u8.MediaPlaylist)
	var total float64
	for _, seg := range media.Segments {
		if seg == nil {
			continue
		}
		info.Segments++
		total += seg.Duration
	}
	info.Live = !media.Closed
	if !info.Live {
		info.Duration = time.Duration(total * float64(time.Second))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return StreamInfo{}, ErrDecoderDestroyed
	}
	d.info = info
	return info, nil
}

// Destroy releases the decoder. Safe to call more than once.
func (d *HLSDecoder) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed = true
	d.info = StreamInfo{}
}

func (d *HLSDecoder) isDestroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

func (d *HLSDecoder) fetch(ctx context.Context, src string) (m3u8.Playlist, m3u8.ListType, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch playlist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch playlist: HTTP %d for %s", resp.StatusCode, src)
	}

	pl, kind, err := m3u8.DecodeFrom(bufio.NewReader(resp.Body), false)
	if err != nil {
		return nil, 0, fmt.Errorf("decode playlist %s: %w", src, err)
	}
	return pl, kind, nil
}

func bestVariant(master *m3u8.MasterPlaylist) *m3u8.Variant {
	var best *m3u8.Variant
	for _, v := range master.Variants {
		if v == nil || v.URI == "" {
			continue
		}
		if best == nil || v.Bandwidth > best.Bandwidth {
			best = v
		}
	}
	return best
}

func resolveRef(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
