package repository

import (
	"context"
	"database/sql"
	"valorant-sync/internal/domain"

	"github.com/rs/zerolog"
)

// AccountRepository reads the tracked-account registry. Rows are written
// by the login flow; the sync core only lists them at cycle start.
type AccountRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAccountRepository(sqlDB *sql.DB, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT puuid, created_at FROM accounts`)
	if err != nil {
		return nil, classifyStoreErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.Puuid, &account.CreatedAt); err != nil {
			return nil, classifyStoreErr("scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStoreErr("list accounts", err)
	}
	return accounts, nil
}

// Add registers an account for tracking. Registering the same puuid twice
// is a no-op.
func (r *AccountRepository) Add(ctx context.Context, puuid string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (puuid) VALUES (?) ON CONFLICT(puuid) DO NOTHING`, puuid)
	if err != nil {
		return classifyStoreErr("add account", err)
	}
	return nil
}
