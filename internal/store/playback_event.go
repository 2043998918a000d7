package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendPlaybackEvent(ctx context.Context, data PlaybackEventData) error {
	if data.Action != PlaybackCompleted && data.Action != PlaybackFailed {
		return fmt.Errorf("save playback event: unknown action %q", data.Action)
	}
	err := r.insert(ctx, PlaybackEventsTable.Name,
		[]string{"session_id", "collection_hash", "item_hash", "action", "position_ms", "error_message"},
		[]any{data.SessionID, data.CollectionHash, data.ItemHash, data.Action, data.PositionMs, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save playback event: %w", err)
	}
	return nil
}
