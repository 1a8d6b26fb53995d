package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		resp := ollamaEmbedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range req.Input {
			resp.Embeddings[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	em := NewOllamaEmbedder("nomic-embed-text", 0, srv.URL)

	got, err := em.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float32{0, 1}, got[0])
	assert.Equal(t, 2, em.Dimension(), "dimension inferred from first vector")
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	em := NewOllamaEmbedder("missing-model", 0, srv.URL)

	_, err := em.Embed(context.Background(), []string{"alpha"})
	assert.ErrorContains(t, err, "ollama embed request failed (404)")
}

func TestOllamaEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	em := NewOllamaEmbedder("nomic-embed-text", 0, srv.URL)

	_, err := em.Embed(context.Background(), []string{"alpha", "beta"})
	assert.ErrorContains(t, err, "count mismatch")
}

func TestOllamaEmbedder_RequiresModel(t *testing.T) {
	em := NewOllamaEmbedder("", 0, "")
	_, err := em.Embed(context.Background(), []string{"alpha"})
	assert.ErrorContains(t, err, "model is required")
}

func TestCleanFencedOutput(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanFencedOutput("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", cleanFencedOutput("```\nplain\n```"))
	assert.Equal(t, "no fences", cleanFencedOutput("  no fences  "))
}
