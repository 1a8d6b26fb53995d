package knowledge

import (
	"context"
	"fmt"
)

// Engine pairs an embedder with an index to answer "what existing content
// is relevant to this section?" queries for the composition pipeline.
type Engine struct {
	embedder Embedder
	index    Indexer
}

func NewEngine(em Embedder, idx Indexer) *Engine {
	return &Engine{embedder: em, index: idx}
}

// IndexChunks embeds and stores content chunks.
func (e *Engine) IndexChunks(ctx context.Context, chunks []ContentChunk) error {
	if e.embedder == nil || e.index == nil {
		return fmt.Errorf("embedder or indexer not initialized")
	}
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.ToEmbeddableText())
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d, expected %d", len(vectors), len(chunks))
	}

	items := make([]VectorItem, 0, len(chunks))
	for i, chunk := range chunks {
		items = append(items, VectorItem{Chunk: chunk, Embedding: vectors[i]})
	}
	return e.index.Add(ctx, items)
}

// SearchByText finds content chunks semantically similar to a query. A nil
// embedder or index degrades to no context rather than an error: retrieval
// is an enrichment, not a requirement.
func (e *Engine) SearchByText(ctx context.Context, query string, topK int) ([]ContentChunk, error) {
	if e.embedder == nil || e.index == nil {
		return nil, nil
	}

	vectors, err := e.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		return nil, err
	}

	items, err := e.index.Search(ctx, vectors[0], topK)
	if err != nil {
		return nil, err
	}

	out := make([]ContentChunk, 0, len(items))
	for _, item := range items {
		out = append(out, item.Chunk)
	}
	return out, nil
}
