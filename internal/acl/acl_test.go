package acl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/routing"
)

func strPtr(s string) *string { return &s }

func allow(t *testing.T, r *Resolver, sub Subject, module, action string) bool {
	t.Helper()
	ok, err := r.CanAccess(context.Background(), sub, module, action)
	require.NoError(t, err)
	return ok
}

func TestCanAccess_Wildcard(t *testing.T) {
	t.Parallel()

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "blog"}, "g-1", false)
	r := NewResolver(store, nil)
	sub := Subject{GroupID: "g-1"}

	assert.True(t, allow(t, r, sub, "blog", "anything"))
	assert.True(t, allow(t, r, sub, "blog", ""))
	assert.False(t, allow(t, r, sub, "shop", "anything"))
}

func TestCanAccess_ExactAction(t *testing.T) {
	t.Parallel()

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "shop", Action: strPtr("list")}, "g-1", false)
	r := NewResolver(store, nil)
	sub := Subject{GroupID: "g-1"}

	assert.True(t, allow(t, r, sub, "shop", "list"))
	assert.False(t, allow(t, r, sub, "shop", "edit"))
}

func TestCanAccess_DefaultAction(t *testing.T) {
	t.Parallel()

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "shop", Action: strPtr("default")}, "g-1", false)
	r := NewResolver(store, nil)
	sub := Subject{GroupID: "g-1"}

	// "default" matches only the empty target action.
	assert.True(t, allow(t, r, sub, "shop", ""))
	assert.False(t, allow(t, r, sub, "shop", "list"))
}

func TestCanAccess_PublicAndUserModules(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewMemoryRuleStore(), nil)
	sub := Subject{GroupID: "g-1"}

	assert.True(t, allow(t, r, sub, "public", "asset"))
	assert.True(t, allow(t, r, sub, "user", "login"))
}

func TestCanAccess_SuperBypass(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewMemoryRuleStore(), nil)
	assert.True(t, allow(t, r, Subject{GroupID: "g-1", Super: true}, "anything", "at-all"))
}

func TestCanAccess_AdminOnlyExcluded(t *testing.T) {
	t.Parallel()

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "blog", AdminOnly: true}, "g-1", false)
	r := NewResolver(store, nil)

	assert.False(t, allow(t, r, Subject{GroupID: "g-1"}, "blog", "read"))
}

func TestCanAccess_Shorthand(t *testing.T) {
	t.Parallel()

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "shop", Action: strPtr("list")}, "g-1", false)
	r := NewResolver(store, nil)

	assert.True(t, allow(t, r, Subject{GroupID: "g-1"}, "shop/list", ""))
	assert.False(t, allow(t, r, Subject{GroupID: "g-1"}, "shop/edit", ""))
}

func TestCanAccess_CanonicalizesThroughRoutes(t *testing.T) {
	t.Parallel()

	// /news/* is a custom route into blog/show, so a blog grant covers it.
	appRoutes := routing.Table{{Path: "/news/:slug", Module: "blog", Action: "show"}}
	matcher, err := routing.NewMatcher(appRoutes, nil)
	require.NoError(t, err)

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "blog"}, "g-1", false)
	r := NewResolver(store, matcher)

	assert.True(t, allow(t, r, Subject{GroupID: "g-1"}, "news", "latest"))
}

func TestLanding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := NewMemoryRuleStore()
	store.Grant(Rule{ID: "r-1", Module: "blog", Action: strPtr("list")}, "g-1", true)
	r := NewResolver(store, nil)

	module, action, err := r.Landing(ctx, Subject{GroupID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, "blog", module)
	assert.Equal(t, "list", action)

	// No default grant falls back to the profile.
	module, action, err = r.Landing(ctx, Subject{GroupID: "g-2"})
	require.NoError(t, err)
	assert.Equal(t, "user", module)
	assert.Equal(t, "index", action)
}
