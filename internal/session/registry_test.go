package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_InsertGetRemove(t *testing.T) {
	r := newRegistry()

	_, ok := r.get("alice")
	assert.False(t, ok)

	h := &Handle{ID: "01HZX", Account: testAccount("alice")}
	r.insert("alice", h)

	got, ok := r.get("alice")
	assert.True(t, ok)
	assert.Same(t, h, got)

	r.remove("alice")
	_, ok = r.get("alice")
	assert.False(t, ok)

	// Removing twice is harmless.
	r.remove("alice")
}

func TestRegistry_ListActive(t *testing.T) {
	r := newRegistry()
	assert.Empty(t, r.listActive())

	r.insert("alice", &Handle{ID: "a"})
	r.insert("bob", &Handle{ID: "b"})

	assert.ElementsMatch(t, []string{"alice", "bob"}, r.listActive())
}

func TestRegistry_InsertReplaces(t *testing.T) {
	r := newRegistry()

	r.insert("alice", &Handle{ID: "old"})
	replacement := &Handle{ID: "new"}
	r.insert("alice", replacement)

	got, ok := r.get("alice")
	assert.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Len(t, r.listActive(), 1)
}
