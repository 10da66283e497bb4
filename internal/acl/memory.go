package acl

import (
	"context"
	"sync"
)

// MemoryRuleStore keeps rules and grants in memory. Used by tests and the
// example app.
type MemoryRuleStore struct {
	mu     sync.Mutex
	rules  map[string]Rule
	grants []Grant
}

func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{rules: make(map[string]Rule)}
}

// Grant registers a rule and links it to a group in one step.
func (s *MemoryRuleStore) Grant(rule Rule, groupID string, isDefault bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.ID] = rule
	s.grants = append(s.grants, Grant{RuleID: rule.ID, GroupID: groupID, Default: isDefault})
}

func (s *MemoryRuleStore) RulesForGroup(_ context.Context, groupID string) ([]Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Rule
	for _, g := range s.grants {
		if g.GroupID == groupID {
			out = append(out, s.rules[g.RuleID])
		}
	}
	return out, nil
}

func (s *MemoryRuleStore) LandingForGroup(_ context.Context, groupID string) (*Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.grants {
		if g.GroupID == groupID && g.Default {
			rule := s.rules[g.RuleID]
			return &rule, nil
		}
	}
	return nil, nil
}
