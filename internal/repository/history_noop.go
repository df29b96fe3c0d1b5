package repository

import (
	"context"

	"github.com/futig/medi-assistant/internal/entity"
)

var _ HistoryRepository = NoopHistory{}

// NoopHistory is used when no database is configured: nothing is kept.
type NoopHistory struct{}

func (NoopHistory) Append(_ context.Context, record entity.AdviceHistoryRecord) (*entity.AdviceHistoryRecord, error) {
	return &record, nil
}

func (NoopHistory) ListBySession(context.Context, string, int) ([]*entity.AdviceHistoryRecord, error) {
	return []*entity.AdviceHistoryRecord{}, nil
}
