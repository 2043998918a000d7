package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type positionRepo struct {
	db *sql.DB
}

func (r *positionRepo) Position(ctx context.Context, collectionHash string) (int, bool, error) {
	b := builder()
	query, args := b.Select("item_index").
		From(b.Table(PositionsTable.Name)).
		Where(entsql.EQ("collection_hash", collectionHash)).
		Query()

	var idx int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&idx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get position %s: %w", collectionHash, err)
	}
	return idx, true, nil
}

func (r *positionRepo) SavePosition(ctx context.Context, collectionHash string, index int) error {
	if index < 0 {
		return fmt.Errorf("save position %s: negative index %d", collectionHash, index)
	}
	query, args := builder().Insert(PositionsTable.Name).
		Columns("collection_hash", "item_index", "updated_at").
		Values(collectionHash, index, time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("collection_hash"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save position %s: %w", collectionHash, err)
	}
	return nil
}
