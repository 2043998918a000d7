package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	entsql "entgo.io/ent/dialect/sql"
)

const settingMuted = "muted"

type prefsRepo struct {
	db *sql.DB
}

func (r *prefsRepo) Muted(ctx context.Context) (bool, error) {
	v, ok, err := getSetting(ctx, r.db, settingMuted)
	if err != nil || !ok {
		return false, err
	}
	muted, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s setting %q: %w", settingMuted, v, err)
	}
	return muted, nil
}

func (r *prefsRepo) SetMuted(ctx context.Context, muted bool) error {
	return putSetting(ctx, r.db, settingMuted, strconv.FormatBool(muted))
}

func getSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	b := builder()
	query, args := b.Select("value").
		From(b.Table(AppSettingsTable.Name)).
		Where(entsql.EQ("key_name", key)).
		Query()

	var v string
	err := db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return v, true, nil
}

func putSetting(ctx context.Context, db *sql.DB, key, value string) error {
	query, args := builder().Insert(AppSettingsTable.Name).
		Columns("key_name", "value").
		Values(key, value).
		OnConflict(entsql.ConflictColumns("key_name"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}
