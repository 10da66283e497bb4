package acl

import (
	"context"
	"strings"

	"github.com/gatehouse/gatehouse/pkg/routing"
)

// Rule names a module (and optionally one action) a group can be granted.
// A nil Action is a wildcard over the whole module. AdminOnly rules never
// grant access through the resolver.
type Rule struct {
	ID        string
	Module    string
	Action    *string
	AdminOnly bool
}

// Grant links a Rule to a group. At most one grant per group carries the
// Default flag; it names the group's landing resource.
type Grant struct {
	RuleID  string
	GroupID string
	Default bool
}

// RuleStore loads the authorization data. Implementations read fresh per
// request; the resolver does its own request-scoped caching.
type RuleStore interface {
	// RulesForGroup returns the rules granted to a group, admin-only
	// included.
	RulesForGroup(ctx context.Context, groupID string) ([]Rule, error)

	// LandingForGroup returns the rule flagged as the group's default,
	// or nil when none is set.
	LandingForGroup(ctx context.Context, groupID string) (*Rule, error)
}

// Subject is the identity slice the resolver needs.
type Subject struct {
	GroupID string
	Super   bool
}

// Resolver answers canAccess questions for one request. Rule sets are
// cached per resolver instance only, so configuration changes show up on
// the next request.
type Resolver struct {
	store   RuleStore
	matcher *routing.Matcher

	cached map[string][]Rule
}

// NewResolver creates a request-scoped resolver. matcher may be nil, in
// which case module/action pairs are evaluated as given without
// canonicalization through the route tables.
func NewResolver(store RuleStore, matcher *routing.Matcher) *Resolver {
	return &Resolver{store: store, matcher: matcher, cached: make(map[string][]Rule)}
}

// CanAccess decides whether the subject may run module/action. The
// "public" and "user" modules are never gated and super users bypass the
// rule set entirely. A module string containing "/" is shorthand for a
// module/action pair.
func (r *Resolver) CanAccess(ctx context.Context, sub Subject, module, action string) (bool, error) {
	if before, after, found := strings.Cut(module, "/"); found {
		module, action = before, after
	}

	if module == "public" || module == "user" {
		return true, nil
	}
	if sub.Super {
		return true, nil
	}

	// A custom route may map this pair to a different canonical one;
	// rules are written against the canonical names.
	if r.matcher != nil {
		module, action = r.matcher.Canonical(module, action)
	}

	rules, err := r.rulesFor(ctx, sub.GroupID)
	if err != nil {
		return false, err
	}

	for _, rule := range rules {
		if rule.AdminOnly || rule.Module != module {
			continue
		}
		switch {
		case rule.Action == nil || *rule.Action == "":
			return true, nil
		case *rule.Action == action:
			return true, nil
		case *rule.Action == "default" && action == "":
			return true, nil
		}
	}
	return false, nil
}

// Landing returns the subject group's landing module/action, defaulting
// to the user profile when no default grant exists.
func (r *Resolver) Landing(ctx context.Context, sub Subject) (module, action string, err error) {
	rule, err := r.store.LandingForGroup(ctx, sub.GroupID)
	if err != nil {
		return "", "", err
	}
	if rule == nil {
		return "user", "index", nil
	}
	action = ""
	if rule.Action != nil {
		action = *rule.Action
	}
	return rule.Module, action, nil
}

func (r *Resolver) rulesFor(ctx context.Context, groupID string) ([]Rule, error) {
	if rules, ok := r.cached[groupID]; ok {
		return rules, nil
	}
	rules, err := r.store.RulesForGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	r.cached[groupID] = rules
	return rules, nil
}
