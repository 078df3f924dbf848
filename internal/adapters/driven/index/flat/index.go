// Package flat provides an exact (brute-force) L2 vector index with
// caller-assigned int64 ids and single-file persistence.
package flat

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// fileMagic identifies a flat index file on disk.
const fileMagic uint32 = 0x52464c31 // "RFL1"

// Index is an in-memory flat index over float32 vectors. Every query
// scans all vectors, so results are exact. Vectors are kept in insertion
// order, which lets the reconciliation pass drop trailing entries.
type Index struct {
	mu      sync.RWMutex
	path    string
	dim     int
	ids     []int64
	vectors [][]float32
}

// New opens the index file at path, or creates an empty index of the
// given dimension when no file exists. A stored dimension that differs
// from dim is a configuration error.
func New(path string, dim int) (*Index, error) {
	if path == "" {
		return nil, errors.New("flat: path cannot be empty")
	}
	if dim <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}

	idx := &Index{path: path, dim: dim}

	if err := idx.load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("flat: loading index: %w", err)
		}
	}

	return idx, nil
}

// Count returns the number of vectors in the index.
func (idx *Index) Count() int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return int64(len(idx.ids))
}

// Dimensions returns the vector dimension.
func (idx *Index) Dimensions() int {
	return idx.dim
}

// AddWithIDs inserts vectors under the given ids.
func (idx *Index) AddWithIDs(_ context.Context, vectors [][]float32, ids []int64) error {
	if len(vectors) != len(ids) {
		return fmt.Errorf("flat: %d vectors for %d ids", len(vectors), len(ids))
	}

	for i, v := range vectors {
		if len(v) != idx.dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(v), idx.dim)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, v := range vectors {
		stored := make([]float32, idx.dim)
		copy(stored, v)
		idx.vectors = append(idx.vectors, stored)
		idx.ids = append(idx.ids, ids[i])
	}

	return nil
}

// Search returns the k nearest neighbours of query by squared L2
// distance (same ordering as Euclidean). The result always has k slots;
// trailing slots carry driven.NoMatchID when fewer vectors exist.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("flat: k must be >= 1, got %d", k)
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), idx.dim)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.ids))
	for i, v := range idx.vectors {
		hits = append(hits, driven.VectorHit{
			ID:       idx.ids[i],
			Distance: l2sq(query, v),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	for len(hits) < k {
		hits = append(hits, driven.VectorHit{ID: driven.NoMatchID, Distance: math.MaxFloat32})
	}

	return hits, nil
}

// Truncate drops all but the first n vectors in insertion order.
func (idx *Index) Truncate(_ context.Context, n int64) error {
	if n < 0 {
		return fmt.Errorf("flat: cannot truncate to %d vectors", n)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if n >= int64(len(idx.ids)) {
		return nil
	}

	idx.ids = idx.ids[:n]
	idx.vectors = idx.vectors[:n]
	return nil
}

// Persist writes the full index to its file. The write goes to a
// temporary file first and is moved into place, so a crash mid-write
// leaves the previous snapshot intact.
func (idx *Index) Persist(_ context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	dir := filepath.Dir(idx.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("flat: creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(idx.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("flat: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := idx.write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("flat: writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("flat: closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), idx.path); err != nil {
		return fmt.Errorf("flat: replacing index file: %w", err)
	}

	return nil
}

// Reset empties the index and removes its durable file.
func (idx *Index) Reset(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.ids = nil
	idx.vectors = nil

	if err := os.Remove(idx.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("flat: removing index file: %w", err)
	}

	return nil
}

// Close releases resources. Nothing is flushed: persistence is explicit
// via Persist.
func (idx *Index) Close() error {
	return nil
}

// write encodes the index: magic, dim, count, ids, then vectors.
func (idx *Index) write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, fileMagic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(idx.dim)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int64(len(idx.ids))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, idx.ids); err != nil {
		return err
	}
	for _, v := range idx.vectors {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// load reads the index file into memory. Returns os.ErrNotExist when
// there is no snapshot yet.
func (idx *Index) load() error {
	f, err := os.Open(idx.path)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)

	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if magic != fileMagic {
		return fmt.Errorf("not a flat index file (magic %#x)", magic)
	}

	var dim int32
	if err := binary.Read(br, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("reading dimension: %w", err)
	}
	if int(dim) != idx.dim {
		return fmt.Errorf("%w: file has dimension %d, configured %d",
			domain.ErrDimensionMismatch, dim, idx.dim)
	}

	var count int64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("reading count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("invalid vector count %d", count)
	}

	ids := make([]int64, count)
	if err := binary.Read(br, binary.LittleEndian, ids); err != nil {
		return fmt.Errorf("reading ids: %w", err)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vectors[i] = make([]float32, idx.dim)
		if err := binary.Read(br, binary.LittleEndian, vectors[i]); err != nil {
			return fmt.Errorf("reading vector %d: %w", i, err)
		}
	}

	idx.ids = ids
	idx.vectors = vectors
	return nil
}

// l2sq computes the squared Euclidean distance between two vectors of
// equal length.
func l2sq(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
