package knowledge

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-memory vector index, used in tests and for
// single-shot compose runs that never persist anything.
type MemoryIndex struct {
	mu    sync.RWMutex
	items []VectorItem
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Add(ctx context.Context, items []VectorItem) error {
	m.mu.Lock()
	m.items = append(m.items, items...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, queryVector []float32, topK int) ([]VectorItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		item  VectorItem
		score float32
	}
	candidates := make([]scored, 0, len(m.items))
	for _, item := range m.items {
		candidates = append(candidates, scored{item: item, score: CosineSimilarity(queryVector, item.Embedding)})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]VectorItem, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.item)
	}
	return out, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors, or
// zero when dimensions mismatch.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float32
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(magA))) * float32(math.Sqrt(float64(magB))))
}
