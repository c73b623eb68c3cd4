package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNamespaceKey(t *testing.T) {
	t.Parallel()

	owner := uuid.MustParse("e7eedc79-0707-4fe4-8734-526b7ef13a7b")
	file := uuid.MustParse("1b671a64-40d5-491e-99b0-da01ff1f3341")

	assert.Equal(t, "public/1b671a64-40d5-491e-99b0-da01ff1f3341", Public().Key(file))
	assert.Equal(t,
		"user/e7eedc79-0707-4fe4-8734-526b7ef13a7b/1b671a64-40d5-491e-99b0-da01ff1f3341",
		User(owner).Key(file))
}

func TestNamespaceIsPublic(t *testing.T) {
	t.Parallel()

	assert.True(t, Public().IsPublic())
	assert.False(t, User(uuid.New()).IsPublic())
}

func TestNamespaceIsolation(t *testing.T) {
	t.Parallel()

	// The same file identifier maps to distinct keys per owner, so one
	// user's subtree can never resolve another's objects.
	file := uuid.New()
	a := User(uuid.New()).Key(file)
	b := User(uuid.New()).Key(file)
	pub := Public().Key(file)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, pub)
	assert.NotEqual(t, b, pub)
}
