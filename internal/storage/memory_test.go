package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ns   Namespace
		data []byte
	}{
		{name: "public small", ns: Public(), data: []byte("hello")},
		{name: "user binary", ns: User(uuid.New()), data: []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF}},
		{name: "public empty", ns: Public(), data: []byte{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewMemoryStore()
			ctx := context.Background()
			id := uuid.New()

			err := store.Put(ctx, tc.ns, id, bytes.NewReader(tc.data), int64(len(tc.data)), "image/png")
			require.NoError(t, err)

			obj, err := store.Get(ctx, tc.ns, id)
			require.NoError(t, err)
			defer obj.Content.Close()

			got, err := io.ReadAll(obj.Content)
			require.NoError(t, err)
			assert.Equal(t, tc.data, got)
			assert.Equal(t, int64(len(tc.data)), obj.Size)
			assert.Equal(t, "image/png", obj.ContentType)
		})
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Get(context.Background(), Public(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNamespacesDoNotOverlap(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	id := uuid.New()
	owner := uuid.New()

	require.NoError(t, store.Put(ctx, User(owner), id, bytes.NewReader([]byte("private")), 7, "text/plain"))

	// Same identifier is absent from the public tree and other users' trees.
	_, err := store.Get(ctx, Public(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, User(uuid.New()), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.Put(ctx, Public(), id, bytes.NewReader([]byte("x")), 1, ""))
	require.NoError(t, store.Delete(ctx, Public(), id))

	_, err := store.Get(ctx, Public(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again, or deleting something never stored, still succeeds.
	require.NoError(t, store.Delete(ctx, Public(), id))
	require.NoError(t, store.Delete(ctx, Public(), uuid.New()))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Put(ctx, Public(), uuid.New(), bytes.NewReader([]byte("x")), 1, "")
	assert.Error(t, err)
}
