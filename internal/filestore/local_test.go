package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLocalStoreWriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("deadbeef"), 1024)
	res, err := store.Write(ctx, "company-1", "1700000000000_ab12cd34_report.pdf", payload, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), res.Size)

	rc, err := store.OpenStream(ctx, res.Path)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLocalStoreScopesByCompany(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.Write(ctx, "company-a", "k.pdf", []byte("a"), "application/pdf")
	require.NoError(t, err)
	b, err := store.Write(ctx, "company-b", "k.pdf", []byte("b"), "application/pdf")
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.Equal(t, "company-a", filepath.Base(filepath.Dir(a.Path)))
	assert.Equal(t, "company-b", filepath.Base(filepath.Dir(b.Path)))
}

func TestLocalStoreConcurrentFirstWriteSameCompany(t *testing.T) {
	// Two first-time uploads for a brand-new company may provision the same
	// directory at once; neither must fail.
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := testKey(i)
			_, errs[i] = store.Write(ctx, "new-company", key, []byte("x"), "application/pdf")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}
}

func TestLocalStoreRemoveIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res, err := store.Write(ctx, "company-1", "doomed.pdf", []byte("bytes"), "application/pdf")
	require.NoError(t, err)

	removed, err := store.Remove(ctx, res.Path)
	require.NoError(t, err)
	assert.True(t, removed)

	// Second removal reports "already absent" without erroring.
	removed, err = store.Remove(ctx, res.Path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLocalStoreOpenStreamMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.OpenStream(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestLocalStoreHonorsExpiredContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Write(ctx, "company-1", "k.pdf", []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.OpenStream(ctx, "irrelevant")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.Remove(ctx, "irrelevant")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStoreWriteConfirmsOnDiskSize(t *testing.T) {
	store := newTestStore(t)

	res, err := store.Write(context.Background(), "company-1", "sized.pdf", make([]byte, 4096), "application/pdf")
	require.NoError(t, err)

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), res.Size)
}

// testKey keeps concurrent writers on distinct keys.
func testKey(i int) string {
	return string(rune('a'+i)) + ".pdf"
}
