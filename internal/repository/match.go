package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"valorant-sync/internal/constants"
	"valorant-sync/internal/domain"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/vmihailenco/msgpack/v5"
)

// blobFormatVersion prefixes every persisted match blob. The encoding is
// internal to this service; it only needs to round-trip losslessly within
// one version.
const blobFormatVersion = 1

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// KnownIDs returns every match ID already persisted. The scheduler takes
// this snapshot once per cycle as the dedup boundary.
func (r *MatchRepository) KnownIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM matches`)
	if err != nil {
		return nil, classifyStoreErr("list known ids", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classifyStoreErr("scan known id", err)
		}
		known[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStoreErr("list known ids", err)
	}
	return known, nil
}

// Put persists one normalized match keyed by its ID. A second put with
// the same ID is a silent no-op; concurrent puts for one ID are safe. A
// transient failure is retried once with the identical id and blob.
func (r *MatchRepository) Put(ctx context.Context, id string, match *domain.Match) error {
	blob, err := encodeMatch(match)
	if err != nil {
		return wrapStoreErr("encode match", ErrStoreFatal, err)
	}

	backoff := retry.WithMaxRetries(constants.StorePutRetries, retry.NewConstant(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx,
			`INSERT INTO matches (id, format_version, data) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			id, blobFormatVersion, blob,
		)
		if execErr == nil {
			return nil
		}
		classified := classifyStoreErr("put match", execErr)
		if errors.Is(classified, ErrStoreTransient) {
			r.logger.Warn().Err(execErr).Str("match_id", id).Msg("transient store failure, retrying put")
			return retry.RetryableError(classified)
		}
		return classified
	})
}

// Get loads and decodes one stored match. A match that was never ingested
// yields ErrMatchNotFound.
func (r *MatchRepository) Get(ctx context.Context, id string) (*domain.Match, error) {
	var version int
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT format_version, data FROM matches WHERE id = ?`, id,
	).Scan(&version, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if err != nil {
		return nil, classifyStoreErr("get match", err)
	}

	match, err := decodeMatch(version, blob)
	if err != nil {
		return nil, wrapStoreErr("decode match", ErrStoreFatal, err)
	}
	return match, nil
}

func encodeMatch(match *domain.Match) ([]byte, error) {
	payload, err := msgpack.Marshal(match)
	if err != nil {
		return nil, err
	}
	blob := make([]byte, 0, len(payload)+1)
	blob = append(blob, blobFormatVersion)
	return append(blob, payload...), nil
}

func decodeMatch(version int, blob []byte) (*domain.Match, error) {
	if version != blobFormatVersion {
		return nil, fmt.Errorf("unsupported match blob version %d", version)
	}
	if len(blob) < 1 || blob[0] != blobFormatVersion {
		return nil, fmt.Errorf("match blob header mismatch")
	}

	var match domain.Match
	if err := msgpack.Unmarshal(blob[1:], &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func wrapStoreErr(op string, class, cause error) error {
	return fmt.Errorf("%w: %s: %v", class, op, cause)
}
