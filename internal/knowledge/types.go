package knowledge

import (
	"context"
	"fmt"
	"strings"
)

// Embedder converts text to vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Generator produces free text from a prompt. The outline builder is the
// main consumer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContentChunk is one piece of indexed site content: an existing page, a
// post excerpt, or a brand/style note used as retrieval context when
// composing new sections.
type ContentChunk struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Kind  string   `json:"kind"`
	URL   string   `json:"url,omitempty"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags,omitempty"`
}

// ToEmbeddableText flattens the chunk into a single string optimized for
// embedding models.
func (c ContentChunk) ToEmbeddableText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Content: %s (%s)\n", c.Title, c.Kind)
	if len(c.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Fprintf(&sb, "Body: %s\n", c.Text)
	return sb.String()
}

// VectorItem pairs a chunk with its embedding.
type VectorItem struct {
	Chunk     ContentChunk
	Embedding []float32
}

// Indexer stores and retrieves VectorItems.
type Indexer interface {
	Add(ctx context.Context, items []VectorItem) error
	Search(ctx context.Context, queryVector []float32, topK int) ([]VectorItem, error)
}
