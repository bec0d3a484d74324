package postgres

import (
	"context"

	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
)

var _ transcript.Backend = (*TranscriptRepository)(nil)

// TranscriptRepository implements transcript.Backend over the transcripts table.
type TranscriptRepository struct {
	db Querier
}

// NewTranscriptRepository creates a repository on top of a pool or transaction.
func NewTranscriptRepository(db Querier) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Get loads the JSON record stored for key.
func (r *TranscriptRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT record FROM transcripts WHERE student_id = $1`

	var record []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&record)
	if err != nil {
		if IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, shared.WrapError("postgres", "Get", shared.ErrStorage, "select transcript failed", err)
	}

	return record, true, nil
}

// Set upserts the JSON record for key.
func (r *TranscriptRepository) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO transcripts (student_id, record)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (student_id) DO UPDATE
		SET record = EXCLUDED.record, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, key, string(value)); err != nil {
		return shared.WrapError("postgres", "Set", shared.ErrStorage, "upsert transcript failed", err)
	}
	return nil
}
