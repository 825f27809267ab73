package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles persistence of status records.
type Repository interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	ListActive(ctx context.Context, userID, guildID string, now time.Time) ([]Record, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed status repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Upsert writes rec, replacing any existing row for the same (user, guild).
// The row keeps its original id on conflict.
func (r *PGRepository) Upsert(ctx context.Context, rec Record) (Record, error) {
	const upsertSQL = `
		INSERT INTO user_statuses (id, user_id, guild_id, status, set_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET status = EXCLUDED.status,
		    set_at = EXCLUDED.set_at,
		    expires_at = EXCLUDED.expires_at
		RETURNING id::text, user_id, guild_id, status, set_at, expires_at
	`

	out, err := scanRecord(r.pool.QueryRow(ctx, upsertSQL,
		rec.ID, rec.UserID, rec.GuildID, string(rec.Status), rec.SetAt, rec.ExpiresAt))
	if err != nil {
		return Record{}, upsertError(err)
	}

	return out, nil
}

// statusCheckConstraint guards the status column against unknown values.
const statusCheckConstraint = "user_statuses_status_check"

func upsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" && pgErr.ConstraintName == statusCheckConstraint {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, pgErr.ConstraintName)
	}
	return fmt.Errorf("status: upsert: %w", err)
}

// ListActive returns the unexpired records for a (user, guild), newest first.
func (r *PGRepository) ListActive(ctx context.Context, userID, guildID string, now time.Time) ([]Record, error) {
	const selectSQL = `
		SELECT id::text, user_id, guild_id, status, set_at, expires_at
		FROM user_statuses
		WHERE user_id = $1 AND guild_id = $2 AND expires_at > $3
		ORDER BY set_at DESC
	`

	rows, err := r.pool.Query(ctx, selectSQL, userID, guildID, now)
	if err != nil {
		return nil, fmt.Errorf("status: list active: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, 1)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("status: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("status: iterate: %w", err)
	}
	return out, nil
}

// DeleteExpired removes every record that has expired at now.
func (r *PGRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_statuses WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("status: delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec    Record
		status string
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.GuildID, &status, &rec.SetAt, &rec.ExpiresAt); err != nil {
		return Record{}, err
	}
	rec.Status = Value(status)
	return rec, nil
}
