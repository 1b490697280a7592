package services

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrDimensionMismatch reports a vector whose length differs from the index's
// configured dimension: an insert, a search query, or a persisted store opened
// under a different configuration. The index is left untouched.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// SearchHit is one nearest-neighbor result.
type SearchHit struct {
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// VectorIndex is an append-only collection of (vector, metadata) pairs with
// cosine-similarity top-k retrieval.
type VectorIndex interface {
	Add(ctx context.Context, vector []float64, metadata map[string]string) error
	Search(ctx context.Context, query []float64, topK int) ([]SearchHit, error)
}

const (
	metaFileName    = "meta.json"
	vectorsFileName = "vectors.bin"
)

// fileVectorIndex persists its whole state on every Add: a JSON metadata list
// and a raw (N,D) float64 array, index-aligned. One mutex serializes writers;
// Search takes the same lock, so reads always see the last completed Add.
// Fine at the target scale of thousands of entries.
type fileVectorIndex struct {
	mu   sync.Mutex
	dir  string
	dim  int
	meta []map[string]string
	vecs [][]float64
}

// NewFileVectorIndex opens (or creates) the index stored under dir,
// reconstructing in-memory state from the persisted files.
func NewFileVectorIndex(dir string, dim int) (VectorIndex, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vector store directory: %w", err)
	}

	idx := &fileVectorIndex{dir: dir, dim: dim}
	if err := idx.load(); err != nil {
		return nil, fmt.Errorf("failed to load vector store: %w", err)
	}

	return idx, nil
}

// Add implements VectorIndex. The insert is atomic: dimension is validated
// before any state changes, and a persistence failure rolls the in-memory
// append back so memory and disk stay aligned.
func (f *fileVectorIndex) Add(_ context.Context, vector []float64, metadata map[string]string) error {
	if len(vector) != f.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vector), f.dim)
	}

	vec := make([]float64, len(vector))
	copy(vec, vector)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.meta = append(f.meta, metadata)
	f.vecs = append(f.vecs, vec)

	if err := f.persist(); err != nil {
		f.meta = f.meta[:len(f.meta)-1]
		f.vecs = f.vecs[:len(f.vecs)-1]
		return fmt.Errorf("failed to persist vector store: %w", err)
	}

	return nil
}

// Search implements VectorIndex. Results come back by descending cosine
// similarity, ties broken by insertion order. An empty index returns nil.
// Queries must carry the index's exact dimension.
func (f *fileVectorIndex) Search(_ context.Context, query []float64, topK int) ([]SearchHit, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, want %d", ErrDimensionMismatch, len(query), f.dim)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.vecs) == 0 || topK <= 0 {
		return nil, nil
	}

	hits := make([]SearchHit, len(f.vecs))
	for i, vec := range f.vecs {
		hits[i] = SearchHit{
			Metadata: f.meta[i],
			Score:    CosineSimilarity(vec, query),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}

	return hits, nil
}

func (f *fileVectorIndex) metaPath() string {
	return filepath.Join(f.dir, metaFileName)
}

func (f *fileVectorIndex) vectorsPath() string {
	return filepath.Join(f.dir, vectorsFileName)
}

func (f *fileVectorIndex) load() error {
	metaBytes, err := os.ReadFile(f.metaPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	vecBytes, err := os.ReadFile(f.vectorsPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read vectors: %w", err)
	}

	var meta []map[string]string
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}

	vecs, dim, err := decodeVectors(vecBytes)
	if err != nil {
		return err
	}

	if dim != f.dim {
		return fmt.Errorf("%w: store persisted with dimension %d, configured %d", ErrDimensionMismatch, dim, f.dim)
	}

	if len(meta) != len(vecs) {
		return fmt.Errorf("metadata/vector count mismatch: %d vs %d", len(meta), len(vecs))
	}

	f.meta = meta
	f.vecs = vecs
	return nil
}

// persist rewrites both artifacts through temp files so a crash mid-write
// never leaves a truncated file behind.
func (f *fileVectorIndex) persist() error {
	metaBytes, err := json.Marshal(f.meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := writeFileAtomic(f.metaPath(), metaBytes); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := writeFileAtomic(f.vectorsPath(), encodeVectors(f.vecs, f.dim)); err != nil {
		return fmt.Errorf("failed to write vectors: %w", err)
	}

	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// encodeVectors lays out the (N,D) array as two uint32 header fields followed
// by row-major little-endian float64 values.
func encodeVectors(vecs [][]float64, dim int) []byte {
	buf := make([]byte, 8+len(vecs)*dim*8)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(vecs)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dim))

	off := 8
	for _, vec := range vecs {
		for _, v := range vec {
			binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
			off += 8
		}
	}

	return buf
}

func decodeVectors(data []byte) ([][]float64, int, error) {
	if len(data) < 8 {
		return nil, 0, fmt.Errorf("vector file too short: %d bytes", len(data))
	}

	count := int(binary.LittleEndian.Uint32(data[0:4]))
	dim := int(binary.LittleEndian.Uint32(data[4:8]))

	if len(data) != 8+count*dim*8 {
		return nil, 0, fmt.Errorf("vector file size mismatch: got %d bytes for %dx%d", len(data), count, dim)
	}

	off := 8
	vecs := make([][]float64, count)
	for i := range vecs {
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
			off += 8
		}
		vecs[i] = vec
	}

	return vecs, dim, nil
}
