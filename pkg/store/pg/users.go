package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// UserStore is the PostgreSQL implementation of auth.UserStore.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, group_id, username, email, hash, faults, enabled, super, pw_reset, last_login_at`

func (s *UserStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return s.findBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.findBy(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *UserStore) RecordFailure(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET faults = faults + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) RecordSuccess(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET faults = 0, pw_reset = NULL, last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// Create inserts a user row. Used by provisioning flows, not the request
// pipeline.
func (s *UserStore) Create(ctx context.Context, u *auth.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.GroupID, u.Username, u.Email, u.Hash, u.Faults, u.Enabled, u.Super, u.PwReset, u.LastLoginAt)
	return err
}

func (s *UserStore) findBy(ctx context.Context, query string, arg any) (*auth.User, error) {
	var u auth.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.GroupID, &u.Username, &u.Email, &u.Hash,
		&u.Faults, &u.Enabled, &u.Super, &u.PwReset, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
