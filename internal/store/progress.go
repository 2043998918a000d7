package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// SQLite drops the declared column type for aggregates, so MAX(timestamp)
// comes back as text in whichever layout the driver wrote it.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseStoredTime(s string) time.Time {
	// time.Time.String appends the monotonic reading when there is one.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (r *eventRepo) Progress(ctx context.Context) ([]CollectionProgress, error) {
	byHash := make(map[string]*CollectionProgress)
	entry := func(hash string) *CollectionProgress {
		p, ok := byHash[hash]
		if !ok {
			p = &CollectionProgress{CollectionHash: hash}
			byHash[hash] = p
		}
		return p
	}
	touch := func(p *CollectionProgress, last sql.NullString) {
		if !last.Valid {
			return
		}
		if t := parseStoredTime(last.String); t.After(p.LastActivity) {
			p.LastActivity = t
		}
	}

	b := builder()
	answers := b.Select("collection_hash", entsql.Count("id"), entsql.Sum("correct"), entsql.Max("timestamp")).
		From(b.Table(AnswerEventsTable.Name)).
		GroupBy("collection_hash")
	query, args := answers.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer progress: %w", err)
	}
	for rows.Next() {
		var (
			hash           string
			count, correct int
			last           sql.NullString
		)
		if err := rows.Scan(&hash, &count, &correct, &last); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan answer progress: %w", err)
		}
		p := entry(hash)
		p.Answered = count
		p.Correct = correct
		touch(p, last)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	b = builder()
	playback := b.Select("collection_hash", "action", entsql.Count("id"), entsql.Max("timestamp")).
		From(b.Table(PlaybackEventsTable.Name)).
		GroupBy("collection_hash", "action")
	query, args = playback.Query()
	rows, err = r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query playback progress: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			hash, action string
			count        int
			last         sql.NullString
		)
		if err := rows.Scan(&hash, &action, &count, &last); err != nil {
			return nil, fmt.Errorf("scan playback progress: %w", err)
		}
		p := entry(hash)
		switch action {
		case PlaybackCompleted:
			p.VideosCompleted = count
		case PlaybackFailed:
			p.PlaybackFailures = count
		}
		touch(p, last)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]CollectionProgress, 0, len(byHash))
	for _, p := range byHash {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActivity.Equal(out[j].LastActivity) {
			return out[i].LastActivity.After(out[j].LastActivity)
		}
		return out[i].CollectionHash < out[j].CollectionHash
	})
	return out, nil
}
