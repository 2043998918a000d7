package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the ent SQL builder and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) timestamp() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

// insert allocates a sequence number and writes one row.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	cols := append([]string{"sequence", "timestamp"}, columns...)
	vals := append([]any{seqNum, r.timestamp()}, values...)
	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendFetchEvent(ctx context.Context, data FetchEventData) error {
	err := r.insert(ctx, FetchEventsTable.Name,
		[]string{"operation", "lookup_key", "latency_ms", "success", "error_message"},
		[]any{data.Operation, data.Key, data.LatencyMs, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save fetch event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryFetchEvents(ctx context.Context, opts QueryOpts) ([]FetchEvent, error) {
	b := builder()
	sel := b.Select("id", "sequence", "timestamp", "operation", "lookup_key", "latency_ms", "success", "error_message").
		From(b.Table(FetchEventsTable.Name))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fetch events: %w", err)
	}
	defer rows.Close()

	var events []FetchEvent
	for rows.Next() {
		var (
			ev FetchEvent
			ts sql.NullTime
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ts, &ev.Operation, &ev.Key,
			&ev.LatencyMs, &ev.Success, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan fetch event: %w", err)
		}
		ev.Timestamp = ts.Time
		events = append(events, ev)
	}
	return events, rows.Err()
}

// applyQueryOpts adds the QueryOpts filters to sel, newest first.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
