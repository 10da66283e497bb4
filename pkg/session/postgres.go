package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists sessions in the "sessions" table (see the
// migrations under pkg/store/pg).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store over the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, user_id, former_user_id, started_at, tz_name, tz_offset)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Token, s.UserID, s.FormerUserID, s.StartedAt, s.TZName, s.TZOffset,
	)
	if err != nil {
		return fmt.Errorf("session: create: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	var s Session
	err := p.pool.QueryRow(ctx, `
		SELECT id, token, user_id, former_user_id, started_at, tz_name, tz_offset
		FROM sessions WHERE token = $1`,
		token,
	).Scan(&s.ID, &s.Token, &s.UserID, &s.FormerUserID, &s.StartedAt, &s.TZName, &s.TZOffset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: get: %w", err)
	}
	return &s, nil
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE sessions
		SET token = $2, user_id = $3, former_user_id = $4, started_at = $5, tz_name = $6, tz_offset = $7
		WHERE id = $1`,
		s.ID, s.Token, s.UserID, s.FormerUserID, s.StartedAt, s.TZName, s.TZOffset,
	)
	if err != nil {
		return fmt.Errorf("session: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

func (p *PostgresStore) DeleteOtherByUser(ctx context.Context, userID, keepID string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND id <> $2`, userID, keepID)
	if err != nil {
		return fmt.Errorf("session: delete other: %w", err)
	}
	return nil
}

func (p *PostgresStore) DeleteStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("session: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *PostgresStore) Touch(ctx context.Context, id string, startedAt time.Time) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET started_at = $2 WHERE id = $1`, id, startedAt)
	if err != nil {
		return fmt.Errorf("session: touch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
