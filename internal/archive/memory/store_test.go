package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	store := New()
	uri, err := store.Put(context.Background(), "KCAJAMES3/daily/2021-07-01.html", "text/html", []byte("page"))
	require.NoError(t, err)
	require.Equal(t, "memory://KCAJAMES3/daily/2021-07-01.html", uri)

	data, ok := store.Get("KCAJAMES3/daily/2021-07-01.html")
	require.True(t, ok)
	require.Equal(t, "page", string(data))
	require.Equal(t, 1, store.Len())
}

func TestPutLastWriteWins(t *testing.T) {
	t.Parallel()

	store := New()
	_, err := store.Put(context.Background(), "k", "text/html", []byte("first"))
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "k", "text/html", []byte("second"))
	require.NoError(t, err)

	data, ok := store.Get("k")
	require.True(t, ok)
	require.Equal(t, "second", string(data))
	require.Equal(t, 1, store.Len())
}

func TestPutRequiresKey(t *testing.T) {
	t.Parallel()

	store := New()
	_, err := store.Put(context.Background(), "", "text/html", nil)
	require.Error(t, err)

	_, ok := store.Get("missing")
	require.False(t, ok)
}
