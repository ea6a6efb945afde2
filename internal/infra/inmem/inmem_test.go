package inmem

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/backup-sanitizer/models"
)

func TestInmem_SaveAndGet(t *testing.T) {
	store := New(zaptest.NewLogger(t))
	ctx := context.Background()

	res := &models.ArchiveScanResult{Name: "a.tar.gz", Infected: true}
	require.NoError(t, store.SaveResult(ctx, res))

	got, err := store.GetResult(ctx, "a.tar.gz")
	require.NoError(t, err)
	assert.Same(t, res, got)

	_, err = store.GetResult(ctx, "missing.tar.gz")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestInmem_Validation(t *testing.T) {
	store := New(zaptest.NewLogger(t))
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveResult(ctx, nil), ErrResultNil)
	assert.ErrorIs(t, store.SaveResult(ctx, &models.ArchiveScanResult{}), ErrNameEmpty)
	assert.ErrorIs(t, store.SaveCleaned(ctx, &models.CleanedArchiveRecord{}), ErrResultNil)

	_, err := store.GetResult(ctx, "")
	assert.ErrorIs(t, err, ErrNameEmpty)
}

func TestInmem_ContextCancelled(t *testing.T) {
	store := New(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveResult(ctx, &models.ArchiveScanResult{Name: "a"})
	assert.ErrorIs(t, err, ErrContextDone)

	_, err = store.ListResults(ctx)
	assert.ErrorIs(t, err, ErrContextDone)
}

func TestInmem_ListOrderedAndConcurrent(t *testing.T) {
	store := New(zaptest.NewLogger(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 9; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("backup-%02d.tar.gz", i)
			assert.NoError(t, store.SaveResult(ctx, &models.ArchiveScanResult{Name: name}))
		}(i)
	}
	wg.Wait()

	results, err := store.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("backup-%02d.tar.gz", i), r.Name)
	}
}

func TestInmem_Cleaned(t *testing.T) {
	store := New(zaptest.NewLogger(t))
	ctx := context.Background()

	for _, name := range []string{"b.tar.gz", "a.tar.gz"} {
		rec := &models.CleanedArchiveRecord{Original: &models.ArchiveScanResult{Name: name}}
		require.NoError(t, store.SaveCleaned(ctx, rec))
	}

	cleaned, err := store.ListCleaned(ctx)
	require.NoError(t, err)
	require.Len(t, cleaned, 2)
	assert.Equal(t, "a.tar.gz", cleaned[0].Original.Name)
	assert.Equal(t, "b.tar.gz", cleaned[1].Original.Name)
}
