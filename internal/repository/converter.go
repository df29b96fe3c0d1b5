package repository

import (
	"github.com/futig/medi-assistant/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// historyRow mirrors one row of advice_history.
type historyRow struct {
	ID           pgtype.UUID
	SessionID    pgtype.UUID
	Language     string
	Symptoms     []string
	Conditions   []string
	FailureKind  string
	SegmentCount int32
	RawResponse  string
	WithAudio    bool
	CreatedAt    pgtype.Timestamptz
}

func toEntityHistoryRecord(row *historyRow) *entity.AdviceHistoryRecord {
	conditions := make([]entity.Condition, len(row.Conditions))
	for i, c := range row.Conditions {
		conditions[i] = entity.Condition(c)
	}

	symptoms := row.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	return &entity.AdviceHistoryRecord{
		ID:           uuid.UUID(row.ID.Bytes).String(),
		SessionID:    uuid.UUID(row.SessionID.Bytes).String(),
		Language:     entity.Language(row.Language),
		Symptoms:     symptoms,
		Conditions:   conditions,
		Failure:      entity.FailureKind(row.FailureKind),
		SegmentCount: int(row.SegmentCount),
		RawResponse:  row.RawResponse,
		WithAudio:    row.WithAudio,
		CreatedAt:    row.CreatedAt.Time,
	}
}

func conditionsToStrings(conditions []entity.Condition) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = string(c)
	}
	return out
}

func parseUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
