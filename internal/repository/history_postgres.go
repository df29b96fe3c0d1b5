package repository

import (
	"context"
	"fmt"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// HistoryRepository keeps a log of completed advice actions.
type HistoryRepository interface {
	Append(ctx context.Context, record entity.AdviceHistoryRecord) (*entity.AdviceHistoryRecord, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*entity.AdviceHistoryRecord, error)
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ HistoryRepository = &HistoryPostgres{}

// HistoryPostgres implements HistoryRepository using PostgreSQL
type HistoryPostgres struct {
	db DBTX
}

func NewHistoryPostgres(db DBTX) *HistoryPostgres {
	return &HistoryPostgres{db: db}
}

const insertHistory = `
INSERT INTO advice_history (
    id, session_id, language, symptoms, conditions,
    failure_kind, segment_count, raw_response, with_audio, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const listHistoryBySession = `
SELECT id, session_id, language, symptoms, conditions,
       failure_kind, segment_count, raw_response, with_audio, created_at
FROM advice_history
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`

func (r *HistoryPostgres) Append(ctx context.Context, record entity.AdviceHistoryRecord) (*entity.AdviceHistoryRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	id, err := parseUUID(record.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID: %w", err)
	}

	sessionID, err := parseUUID(record.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	symptoms := record.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	_, err = r.db.Exec(ctx, insertHistory,
		id,
		sessionID,
		string(record.Language),
		symptoms,
		conditionsToStrings(record.Conditions),
		string(record.Failure),
		int32(record.SegmentCount),
		record.RawResponse,
		record.WithAudio,
		record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert advice history: %w", err)
	}

	return &record, nil
}

func (r *HistoryPostgres) ListBySession(ctx context.Context, sessionID string, limit int) ([]*entity.AdviceHistoryRecord, error) {
	id, err := parseUUID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	rows, err := r.db.Query(ctx, listHistoryBySession, id, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list advice history: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.AdviceHistoryRecord, error) {
		var h historyRow
		if err := row.Scan(
			&h.ID,
			&h.SessionID,
			&h.Language,
			&h.Symptoms,
			&h.Conditions,
			&h.FailureKind,
			&h.SegmentCount,
			&h.RawResponse,
			&h.WithAudio,
			&h.CreatedAt,
		); err != nil {
			return nil, err
		}
		return toEntityHistoryRecord(&h), nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan advice history: %w", err)
	}

	return records, nil
}
