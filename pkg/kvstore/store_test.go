package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "pedidos", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "pedidos", "p1", []byte(`{"id":"p1"}`)))
		got, err := s.Get(ctx, "pedidos", "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"p1"}`, string(got))
	})

	t.Run("list keeps first insertion order across overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "fichajes:p1", "c3", []byte(`{"n":3}`)))
		require.NoError(t, s.Put(ctx, "fichajes:p1", "c1", []byte(`{"n":1}`)))
		require.NoError(t, s.Put(ctx, "fichajes:p1", "c2", []byte(`{"n":2}`)))
		require.NoError(t, s.Put(ctx, "fichajes:p1", "c3", []byte(`{"n":33}`)))

		recs, err := s.List(ctx, "fichajes:p1")
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "c3", recs[0].Key)
		assert.Equal(t, "c1", recs[1].Key)
		assert.Equal(t, "c2", recs[2].Key)
		assert.JSONEq(t, `{"n":33}`, string(recs[0].Value))
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		recs, err := s.List(ctx, "fichajes:p2")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "fichajes:p1", "c1"))
		assert.ErrorIs(t, s.Delete(ctx, "fichajes:p1", "c1"), ErrNotFound)

		recs, err := s.List(ctx, "fichajes:p1")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "c3", recs[0].Key)
		assert.Equal(t, "c2", recs[1].Key)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	value := []byte(`{"a":1}`)
	require.NoError(t, s.Put(ctx, "ns", "k", value))
	value[2] = 'b'

	got, err := s.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}
