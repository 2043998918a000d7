package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// FetchEventsColumns holds the columns for the "fetch_events" table.
	FetchEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "operation", Type: field.TypeString},
		{Name: "lookup_key", Type: field.TypeString},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// FetchEventsTable holds the schema information for the "fetch_events" table.
	FetchEventsTable = &schema.Table{
		Name:       "fetch_events",
		Columns:    FetchEventsColumns,
		PrimaryKey: []*schema.Column{FetchEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "fetchevent_timestamp", Columns: []*schema.Column{FetchEventsColumns[2]}},
			{Name: "fetchevent_operation", Columns: []*schema.Column{FetchEventsColumns[3]}},
		},
	}

	// AnswerEventsColumns holds the columns for the "answer_events" table.
	AnswerEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "collection_hash", Type: field.TypeString, Default: ""},
		{Name: "item_hash", Type: field.TypeString},
		{Name: "answer_mode", Type: field.TypeString},
		{Name: "learner_answer", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "resolved_url", Type: field.TypeString, Default: ""},
	}
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = &schema.Table{
		Name:       "answer_events",
		Columns:    AnswerEventsColumns,
		PrimaryKey: []*schema.Column{AnswerEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_collection_hash", Columns: []*schema.Column{AnswerEventsColumns[4]}},
			{Name: "answerevent_session_id", Columns: []*schema.Column{AnswerEventsColumns[3]}},
		},
	}

	// PlaybackEventsColumns holds the columns for the "playback_events" table.
	PlaybackEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "collection_hash", Type: field.TypeString, Default: ""},
		{Name: "item_hash", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "position_ms", Type: field.TypeInt64},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// PlaybackEventsTable holds the schema information for the "playback_events" table.
	PlaybackEventsTable = &schema.Table{
		Name:       "playback_events",
		Columns:    PlaybackEventsColumns,
		PrimaryKey: []*schema.Column{PlaybackEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "playbackevent_collection_hash", Columns: []*schema.Column{PlaybackEventsColumns[4]}},
		},
	}

	// AppSettingsColumns holds the columns for the "app_settings" table.
	AppSettingsColumns = []*schema.Column{
		{Name: "key_name", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeString},
	}
	// AppSettingsTable holds the schema information for the "app_settings" table.
	AppSettingsTable = &schema.Table{
		Name:       "app_settings",
		Columns:    AppSettingsColumns,
		PrimaryKey: []*schema.Column{AppSettingsColumns[0]},
	}

	// PositionsColumns holds the columns for the "positions" table.
	PositionsColumns = []*schema.Column{
		{Name: "collection_hash", Type: field.TypeString, Unique: true},
		{Name: "item_index", Type: field.TypeInt},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// PositionsTable holds the schema information for the "positions" table.
	PositionsTable = &schema.Table{
		Name:       "positions",
		Columns:    PositionsColumns,
		PrimaryKey: []*schema.Column{PositionsColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		FetchEventsTable,
		AnswerEventsTable,
		PlaybackEventsTable,
		AppSettingsTable,
		PositionsTable,
	}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
