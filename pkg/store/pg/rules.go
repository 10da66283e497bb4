package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatehouse/gatehouse/internal/acl"
)

// RuleStore is the PostgreSQL implementation of acl.RuleStore.
type RuleStore struct {
	pool *pgxpool.Pool
}

func NewRuleStore(pool *pgxpool.Pool) *RuleStore {
	return &RuleStore{pool: pool}
}

func (s *RuleStore) RulesForGroup(ctx context.Context, groupID string) ([]acl.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.module, r.action, r.admin_only
		FROM acl_rules r
		JOIN acl_grants g ON g.rule_id = r.id
		WHERE g.group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []acl.Rule
	for rows.Next() {
		var rule acl.Rule
		if err := rows.Scan(&rule.ID, &rule.Module, &rule.Action, &rule.AdminOnly); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (s *RuleStore) LandingForGroup(ctx context.Context, groupID string) (*acl.Rule, error) {
	var rule acl.Rule
	err := s.pool.QueryRow(ctx, `
		SELECT r.id, r.module, r.action, r.admin_only
		FROM acl_rules r
		JOIN acl_grants g ON g.rule_id = r.id
		WHERE g.group_id = $1 AND g.is_default
		LIMIT 1`, groupID).
		Scan(&rule.ID, &rule.Module, &rule.Action, &rule.AdminOnly)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}
