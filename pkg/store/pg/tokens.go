package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// TokenStore is the PostgreSQL implementation of auth.TokenStore.
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) Create(ctx context.Context, t *auth.RememberMeToken) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO remember_me_tokens (id, user_id, token, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.UserID, t.Token, t.CreatedAt)
	return err
}

func (s *TokenStore) Find(ctx context.Context, token string) (*auth.RememberMeToken, error) {
	var t auth.RememberMeToken
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, token, created_at FROM remember_me_tokens WHERE token = $1`, token).
		Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TokenStore) Rotate(ctx context.Context, id, token string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE remember_me_tokens SET token = $2, created_at = $3 WHERE id = $1`, id, token, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrTokenNotFound
	}
	return nil
}

func (s *TokenStore) DeleteOtherByUser(ctx context.Context, userID, keepID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM remember_me_tokens WHERE user_id = $1 AND id <> $2`, userID, keepID)
	return err
}

func (s *TokenStore) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM remember_me_tokens WHERE user_id = $1`, userID)
	return err
}

func (s *TokenStore) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM remember_me_tokens WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
