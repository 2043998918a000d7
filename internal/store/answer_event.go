package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, AnswerEventsTable.Name,
		[]string{"session_id", "collection_hash", "item_hash", "answer_mode", "learner_answer", "correct", "resolved_url"},
		[]any{data.SessionID, data.CollectionHash, data.ItemHash, data.AnswerMode, data.LearnerAnswer, data.Correct, data.ResolvedURL},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}
