package feed

import "strconv"

// Playlist is the ordered, de-duplicated list of items for one viewing
// session. It is immutable once built and safe to read from commands.
type Playlist struct {
	Title          string
	CollectionHash string

	items []Item
	byID  map[int64]int
}

// NewPlaylist builds a playlist, dropping later duplicates. Items are keyed
// by hash id; items without one get a positional key.
func NewPlaylist(items []Item) *Playlist {
	p := &Playlist{byID: make(map[int64]int)}
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.Key == "" {
			it.Key = itemKey(it, i)
		}
		if seen[it.Key] {
			continue
		}
		seen[it.Key] = true
		if it.ID != 0 {
			if _, dup := p.byID[it.ID]; !dup {
				p.byID[it.ID] = len(p.items)
			}
		}
		p.items = append(p.items, it)
	}
	return p
}

func itemKey(it Item, pos int) string {
	if it.HashID != "" {
		return it.HashID
	}
	return "pos-" + strconv.Itoa(pos)
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// At returns the item at i, or nil when out of range.
func (p *Playlist) At(i int) *Item {
	if p == nil || i < 0 || i >= len(p.items) {
		return nil
	}
	return &p.items[i]
}

// Items returns a copy of the items.
func (p *Playlist) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// ElementByID returns the index of the item with numeric id, or -1.
func (p *Playlist) ElementByID(id int64) int {
	if p == nil {
		return -1
	}
	if i, ok := p.byID[id]; ok {
		return i
	}
	return -1
}

// Challenges returns the number of challenge items.
func (p *Playlist) Challenges() int {
	n := 0
	for i := range p.items {
		if p.items[i].IsChallenge() {
			n++
		}
	}
	return n
}
