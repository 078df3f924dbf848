package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haasp-labs/recall/internal/adapters/driven/embedding/local"
	"github.com/haasp-labs/recall/internal/adapters/driven/index/flat"
	"github.com/haasp-labs/recall/internal/adapters/driven/storage/memory"
	"github.com/haasp-labs/recall/internal/chunker"
	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driven"
)

const testDim = 64

// newTestEngine wires an engine from real in-process collaborators:
// the local embedder, a flat index in a temp dir and the in-memory
// chunk store. Small windows keep test documents single-chunk unless a
// test wants more.
func newTestEngine(t *testing.T) (*Engine, *flat.Index, *memory.ChunkStore) {
	t.Helper()

	idx, err := flat.New(filepath.Join(t.TempDir(), "vectors.idx"), testDim)
	require.NoError(t, err)

	store := memory.NewChunkStore()
	embedder := local.NewEmbeddingService(testDim)
	c := chunker.New(chunker.WithChunkSize(8), chunker.WithOverlap(2))

	return NewEngine(c, embedder, idx, store), idx, store
}

func TestAddDocumentRejectsEmptyDocID(t *testing.T) {
	ctx := context.Background()
	engine, idx, store := newTestEngine(t)

	_, err := engine.AddDocument(ctx, "   ", "some content")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Equal(t, int64(0), idx.Count())
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAddDocumentEmptyContentIsNoOp(t *testing.T) {
	ctx := context.Background()
	engine, idx, store := newTestEngine(t)

	added, err := engine.AddDocument(ctx, "d1", "")
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	assert.Equal(t, int64(0), idx.Count())
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAddDocumentAssignsContiguousIDs(t *testing.T) {
	ctx := context.Background()
	engine, idx, store := newTestEngine(t)

	// 10 tokens with window 8 / overlap 2 (stride 6) give two chunks.
	added, err := engine.AddDocument(ctx, "d1", "a b c d e f g h i j")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = engine.AddDocument(ctx, "d2", "one two three")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	assert.Equal(t, int64(3), idx.Count())

	rows, err := store.FetchByVectorIDs(ctx, []int64{0, 1, 2})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "d1", rows[0].DocID)
	assert.Equal(t, "d1", rows[1].DocID)
	assert.Equal(t, "d2", rows[2].DocID)
	assert.Equal(t, "a b c d e f g h", rows[0].Text)
	assert.Equal(t, "g h i j", rows[1].Text)
}

func TestSearchEmptyStoreReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	results, err := engine.Search(ctx, "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRejectsInvalidK(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	_, err := engine.Search(ctx, "query", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = engine.Search(ctx, "query", -3)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSearchFindsRelatedDocument(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	_, err := engine.AddDocument(ctx, "sky", "the sky is blue")
	require.NoError(t, err)
	_, err = engine.AddDocument(ctx, "ai", "artificial intelligence is a field")
	require.NoError(t, err)

	results, err := engine.Search(ctx, "what color is the sky", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "sky", results[0].DocID)
	assert.Equal(t, "the sky is blue", results[0].ChunkText)
}

func TestSearchResultsOrderedByScore(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	docs := map[string]string{
		"d1": "red green blue",
		"d2": "cats and dogs",
		"d3": "red blue yellow",
		"d4": "quantum field theory",
	}
	for id, text := range docs {
		_, err := engine.AddDocument(ctx, id, text)
		require.NoError(t, err)
	}

	results, err := engine.Search(ctx, "red blue", 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearchCapsAtAvailableVectors(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	_, err := engine.AddDocument(ctx, "only", "a single short document")
	require.NoError(t, err)

	results, err := engine.Search(ctx, "document", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchDropsOrphanedVectors(t *testing.T) {
	ctx := context.Background()
	engine, idx, _ := newTestEngine(t)

	_, err := engine.AddDocument(ctx, "d1", "hello world")
	require.NoError(t, err)

	// A vector with no metadata row models the post-crash window the
	// reconciliation pass has not repaired yet.
	embedder := local.NewEmbeddingService(testDim)
	orphan, err := embedder.Embed(ctx, "hello world again")
	require.NoError(t, err)
	require.NoError(t, idx.AddWithIDs(ctx, [][]float32{orphan}, []int64{1}))

	results, err := engine.Search(ctx, "hello world", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "d1", results[0].DocID)
}

func TestConcurrentIngestAssignsDisjointIDs(t *testing.T) {
	ctx := context.Background()
	engine, idx, store := newTestEngine(t)

	const writers = 8
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			_, err := engine.AddDocument(ctx, fmt.Sprintf("doc-%d", w), "a b c d e f g h i j")
			assert.NoError(t, err)
		}(w)
	}
	wg.Wait()

	// Two chunks per document; every id in [0, 2*writers) must be
	// present exactly once in the metadata store.
	assert.Equal(t, int64(2*writers), idx.Count())

	ids := make([]int64, 2*writers)
	for i := range ids {
		ids[i] = int64(i)
	}
	rows, err := store.FetchByVectorIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, rows, 2*writers)
}

func TestResetIdempotent(t *testing.T) {
	ctx := context.Background()
	engine, idx, store := newTestEngine(t)

	_, err := engine.AddDocument(ctx, "d1", "some searchable text")
	require.NoError(t, err)

	require.NoError(t, engine.Reset(ctx))
	require.NoError(t, engine.Reset(ctx))

	assert.Equal(t, int64(0), idx.Count())
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	results, err := engine.Search(ctx, "some searchable text", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Allocation restarts at zero after a reset.
	_, err = engine.AddDocument(ctx, "d2", "fresh start")
	require.NoError(t, err)
	rows, err := store.FetchByVectorIDs(ctx, []int64{0})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "d2", rows[0].DocID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t)

	stats, err := engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)

	_, err = engine.AddDocument(ctx, "d1", "a b c d e f g h i j")
	require.NoError(t, err)

	stats, err = engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Vectors)
	assert.Equal(t, int64(2), stats.Chunks)
}

// --- failure injection ---

// failingEmbedder always fails.
type failingEmbedder struct {
	driven.EmbeddingService
}

func (f *failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("model unavailable")
}

func (f *failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("model unavailable")
}

// failingChunkStore fails InsertMany while delegating everything else.
type failingChunkStore struct {
	driven.ChunkStore
	insertErr error
}

func (f *failingChunkStore) InsertMany(ctx context.Context, rows []domain.ChunkRow) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.ChunkStore.InsertMany(ctx, rows)
}

func TestEmbeddingFailureAbortsBeforeMutation(t *testing.T) {
	ctx := context.Background()

	idx, err := flat.New(filepath.Join(t.TempDir(), "vectors.idx"), testDim)
	require.NoError(t, err)
	store := memory.NewChunkStore()
	embedder := &failingEmbedder{local.NewEmbeddingService(testDim)}
	engine := NewEngine(chunker.New(), embedder, idx, store)

	_, err = engine.AddDocument(ctx, "d1", "content")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbedding))

	assert.Equal(t, int64(0), idx.Count())
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = engine.Search(ctx, "query", 3)
	assert.True(t, errors.Is(err, domain.ErrEmbedding))
}

func TestMetadataFailureLeavesIndexAheadUntilReconcile(t *testing.T) {
	ctx := context.Background()

	idx, err := flat.New(filepath.Join(t.TempDir(), "vectors.idx"), testDim)
	require.NoError(t, err)
	backing := memory.NewChunkStore()
	store := &failingChunkStore{ChunkStore: backing, insertErr: errors.New("disk full")}
	engine := NewEngine(chunker.New(), local.NewEmbeddingService(testDim), idx, store)

	_, err = engine.AddDocument(ctx, "d1", "content that embeds fine")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMetadataWrite))

	// The index mutated before the metadata commit failed.
	assert.Equal(t, int64(1), idx.Count())
	count, err := backing.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// The reconciliation pass drops the orphaned trailing vector.
	store.insertErr = nil
	require.NoError(t, engine.Reconcile(ctx))
	assert.Equal(t, int64(0), idx.Count())

	// Ingestion then restarts allocation from zero.
	added, err := engine.AddDocument(ctx, "d2", "after recovery")
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	rows, err := backing.FetchByVectorIDs(ctx, []int64{0})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReconcileConsistentStoresIsNoOp(t *testing.T) {
	ctx := context.Background()
	engine, idx, _ := newTestEngine(t)

	_, err := engine.AddDocument(ctx, "d1", "hello there")
	require.NoError(t, err)

	require.NoError(t, engine.Reconcile(ctx))
	assert.Equal(t, int64(1), idx.Count())
}

func TestReconcileRejectsMetadataAhead(t *testing.T) {
	ctx := context.Background()
	engine, _, store := newTestEngine(t)

	// Metadata referencing vectors the index never persisted reveals
	// corruption that must not be silently patched.
	require.NoError(t, store.InsertMany(ctx, []domain.ChunkRow{
		{DocID: "ghost", Text: "row without vector", VectorID: 0},
	}))

	err := engine.Reconcile(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreCorrupted))
}
