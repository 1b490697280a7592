package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileVectorIndexSearchEmpty(t *testing.T) {
	idx, err := NewFileVectorIndex(t.TempDir(), 3)
	require.NoError(t, err)

	hits, err := idx.Search(context.Background(), []float64{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFileVectorIndexAddAndSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := NewFileVectorIndex(t.TempDir(), 3)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, []float64{1, 0, 0}, map[string]string{"resume_id": "a"}))
	require.NoError(t, idx.Add(ctx, []float64{0, 1, 0}, map[string]string{"resume_id": "b"}))
	require.NoError(t, idx.Add(ctx, []float64{0.9, 0.1, 0}, map[string]string{"resume_id": "c"}))

	hits, err := idx.Search(ctx, []float64{1, 0, 0}, 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Metadata["resume_id"])
	assert.Equal(t, "c", hits[1].Metadata["resume_id"])
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestFileVectorIndexTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx, err := NewFileVectorIndex(t.TempDir(), 2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, []float64{1, 1}, map[string]string{"resume_id": "first"}))
	require.NoError(t, idx.Add(ctx, []float64{1, 1}, map[string]string{"resume_id": "second"}))

	hits, err := idx.Search(ctx, []float64{1, 1}, 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "first", hits[0].Metadata["resume_id"])
	assert.Equal(t, "second", hits[1].Metadata["resume_id"])
}

func TestFileVectorIndexDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	idx, err := NewFileVectorIndex(dir, 3)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, []float64{1, 2, 3}, map[string]string{"resume_id": "ok"}))

	metaBefore, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	require.NoError(t, err)
	vecsBefore, err := os.ReadFile(filepath.Join(dir, "vectors.bin"))
	require.NoError(t, err)

	err = idx.Add(ctx, []float64{1, 2}, map[string]string{"resume_id": "bad"})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	// Persisted state is untouched by the rejected insert.
	metaAfter, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	require.NoError(t, err)
	vecsAfter, err := os.ReadFile(filepath.Join(dir, "vectors.bin"))
	require.NoError(t, err)
	assert.Equal(t, metaBefore, metaAfter)
	assert.Equal(t, vecsBefore, vecsAfter)

	hits, err := idx.Search(ctx, []float64{1, 2, 3}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFileVectorIndexReopenDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx, err := NewFileVectorIndex(dir, 3)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx, []float64{1, 2, 3}, map[string]string{"resume_id": "a"}))

	// Reopening with a different configured dimension must fail loudly
	// instead of loading misaligned rows that the next Add would corrupt.
	_, err = NewFileVectorIndex(dir, 4)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	// The persisted store stays intact and usable at its own dimension.
	reopened, err := NewFileVectorIndex(dir, 3)
	require.NoError(t, err)
	hits, err := reopened.Search(ctx, []float64{1, 2, 3}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Metadata["resume_id"])
}

func TestFileVectorIndexSearchQueryDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, err := NewFileVectorIndex(t.TempDir(), 3)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx, []float64{1, 0, 0}, map[string]string{"resume_id": "a"}))

	_, err = idx.Search(ctx, []float64{1, 0}, 5)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = idx.Search(ctx, []float64{1, 0, 0, 0}, 5)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFileVectorIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx, err := NewFileVectorIndex(dir, 4)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		vec := []float64{float64(i), float64(i) + 0.5, -float64(i), 0.25}
		meta := map[string]string{"resume_id": fmt.Sprintf("r%d", i), "name": fmt.Sprintf("candidate %d", i)}
		require.NoError(t, idx.Add(ctx, vec, meta))
	}

	// Reload from disk and verify identical state through search results.
	reloaded, err := NewFileVectorIndex(dir, 4)
	require.NoError(t, err)

	for _, query := range [][]float64{{1, 1, 1, 1}, {3, 3.5, -3, 0.25}, {-1, 0, 5, 2}} {
		original, err := idx.Search(ctx, query, 10)
		require.NoError(t, err)
		restored, err := reloaded.Search(ctx, query, 10)
		require.NoError(t, err)
		assert.Equal(t, original, restored)
	}
}

func TestFileVectorIndexTopKLargerThanSize(t *testing.T) {
	ctx := context.Background()
	idx, err := NewFileVectorIndex(t.TempDir(), 2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, []float64{1, 0}, map[string]string{"resume_id": "only"}))

	hits, err := idx.Search(ctx, []float64{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFileVectorIndexConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	idx, err := NewFileVectorIndex(dir, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := idx.Add(ctx, []float64{float64(i), 1}, map[string]string{"resume_id": fmt.Sprintf("r%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	hits, err := idx.Search(ctx, []float64{1, 1}, 100)
	require.NoError(t, err)
	assert.Len(t, hits, 20)

	// Reload sees all writes.
	reloaded, err := NewFileVectorIndex(dir, 2)
	require.NoError(t, err)
	hits, err = reloaded.Search(ctx, []float64{1, 1}, 100)
	require.NoError(t, err)
	assert.Len(t, hits, 20)
}
