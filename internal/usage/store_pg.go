package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store over the
// per-period counter table.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	now := time.Now()
	u := defaultUsage()

	var used int
	row := s.DB.QueryRowContext(ctx, `
SELECT scans_used FROM usage_counters WHERE user_id = $1 AND period = $2`, userID, periodKey(now))
	if err := row.Scan(&used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, nil
		}
		return Usage{}, err
	}
	u.Used = used
	return u, nil
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.Get(ctx, userID)
	}
	now := time.Now()
	period := periodKey(now)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, period, scans_used)
VALUES ($1, $2, 0)
ON CONFLICT (user_id, period) DO NOTHING`, userID, period); err != nil {
		return Usage{}, err
	}

	u := defaultUsage()
	var used int
	row := tx.QueryRowContext(ctx, `
SELECT scans_used FROM usage_counters WHERE user_id = $1 AND period = $2 FOR UPDATE`, userID, period)
	if err = row.Scan(&used); err != nil {
		return Usage{}, err
	}
	if used+n > u.Limit {
		err = ErrLimitReached
		return Usage{}, err
	}
	if _, err = tx.ExecContext(ctx, `
UPDATE usage_counters SET scans_used = $1, updated_at = now()
WHERE user_id = $2 AND period = $3`, used+n, userID, period); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	u.Used = used + n
	return u, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	now := time.Now()
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, period, scans_used)
VALUES ($1, $2, 0)
ON CONFLICT (user_id, period) DO UPDATE SET scans_used = 0, updated_at = now()`,
		userID, periodKey(now)); err != nil {
		return Usage{}, err
	}
	return defaultUsage(), nil
}
