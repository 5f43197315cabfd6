package repository

import (
	"context"
	"database/sql"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Ingest outcomes worth surfacing to an operator. A match that failed
// ingestion simply does not appear in history; these rows explain why.
const (
	IngestStatusNotFound    = "not_found"
	IngestStatusMalformed   = "malformed"
	IngestStatusFetchFailed = "fetch_failed"
	IngestStatusStoreFailed = "store_failed"
)

type IngestLogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewIngestLogRepository(sqlDB *sql.DB, logger zerolog.Logger) *IngestLogRepository {
	return &IngestLogRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Record writes one ingest outcome row. Logging must never break the
// cycle, so failures are logged and swallowed.
func (r *IngestLogRepository) Record(ctx context.Context, matchID, status, detail string) {
	id, err := gonanoid.New()
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to generate ingest log id")
		return
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO ingest_log (id, match_id, status, detail) VALUES (?, ?, ?, ?)`,
		id, matchID, status, detail,
	)
	if err != nil {
		r.logger.Warn().Err(err).Str("match_id", matchID).Str("status", status).Msg("failed to record ingest outcome")
	}
}

// RecentForMatch lists the recorded outcomes for one match, newest first.
func (r *IngestLogRepository) RecentForMatch(ctx context.Context, matchID string, limit int) ([]IngestEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, status, detail FROM ingest_log WHERE match_id = ? ORDER BY created_at DESC LIMIT ?`,
		matchID, limit,
	)
	if err != nil {
		return nil, classifyStoreErr("list ingest log", err)
	}
	defer rows.Close()

	var entries []IngestEntry
	for rows.Next() {
		var e IngestEntry
		if err := rows.Scan(&e.MatchID, &e.Status, &e.Detail); err != nil {
			return nil, classifyStoreErr("scan ingest log", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type IngestEntry struct {
	MatchID string
	Status  string
	Detail  string
}
