package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser_Segments(t *testing.T) {
	t.Parallel()

	p := NewParser("")

	req := p.Parse("/user/edit/42", "")
	assert.Equal(t, []string{"user", "edit", "42"}, req.Segments)
	assert.False(t, req.Ajax)
	assert.False(t, req.Raw)

	// Repeated and trailing slashes collapse.
	req = p.Parse("//user///edit/", "")
	assert.Equal(t, []string{"user", "edit"}, req.Segments)

	// Missing leading slash is forced.
	req = p.Parse("user/edit", "")
	assert.Equal(t, []string{"user", "edit"}, req.Segments)
}

func TestParser_Flags(t *testing.T) {
	t.Parallel()

	p := NewParser("")

	req := p.Parse("/raw/blog/feed", "")
	assert.True(t, req.Raw)
	assert.False(t, req.Ajax)
	assert.Equal(t, []string{"blog", "feed"}, req.Segments)

	// ajax implies raw.
	req = p.Parse("/ajax/blog/feed", "")
	assert.True(t, req.Ajax)
	assert.True(t, req.Raw)
	assert.Equal(t, []string{"blog", "feed"}, req.Segments)
}

func TestParser_BasePath(t *testing.T) {
	t.Parallel()

	p := NewParser("/app")

	req := p.Parse("/app/user/edit", "")
	assert.Equal(t, []string{"user", "edit"}, req.Segments)

	// Paths outside the base path are left intact.
	req = p.Parse("/other/user", "")
	assert.Equal(t, []string{"other", "user"}, req.Segments)
}

func TestParser_Query(t *testing.T) {
	t.Parallel()

	p := NewParser("")

	req := p.Parse("/blog/list", "tag=go&q=two+words")
	v, ok := req.Query.Get("tag")
	assert.True(t, ok)
	assert.Equal(t, "go", v)
	v, _ = req.Query.Get("q")
	assert.Equal(t, "two words", v)
	assert.Equal(t, []string{"tag", "q"}, req.Query.Names())

	// A "?" embedded in the path wins over the separate query argument.
	req = p.Parse("/blog/list?tag=go", "")
	v, _ = req.Query.Get("tag")
	assert.Equal(t, "go", v)
	assert.Equal(t, []string{"blog", "list"}, req.Segments)

	// Empty values are stored but read back as unset.
	req = p.Parse("/blog/list", "tag=")
	_, ok = req.Query.Get("tag")
	assert.False(t, ok)
}
