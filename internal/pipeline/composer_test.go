package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocksmith/internal/assembly"
	"blocksmith/internal/knowledge"
	"blocksmith/internal/outline"
	"blocksmith/internal/registry"
	"blocksmith/internal/storage"
)

type fakeDetector struct {
	snap *registry.Snapshot
	err  error
}

func (d *fakeDetector) Detect(ctx context.Context) (*registry.Snapshot, error) {
	return d.snap, d.err
}

func workingDetector() *fakeDetector {
	return &fakeDetector{snap: registry.NewSnapshot(
		[]registry.PluginDescriptor{
			{Key: "kadence_blocks", Name: "Kadence Blocks", Active: true, Priority: 9, Namespace: "kadence",
				SupportedSections: map[string]bool{"hero": true, "cta": true, "content": true}},
		},
		[]registry.BlockDescriptor{
			{FullName: "kadence/rowlayout", SupportsInnerBlocks: true, IsContainer: true},
			{FullName: "kadence/advancedbtn"},
			{FullName: "core/group", IsContainer: true},
			{FullName: "core/paragraph"},
		},
	)}
}

func TestCompose_ExplicitSections(t *testing.T) {
	composer := NewComposer(workingDetector())

	out, err := composer.Compose(context.Background(), Input{
		Sections: []assembly.SectionRequest{
			{ID: "hero-1", ContentType: "hero", Heading: "Welcome"},
			{ID: "cta-1", ContentType: "cta", Heading: "Sign up"},
		},
	})
	require.NoError(t, err)

	require.Len(t, out.Result.Blocks, 2)
	assert.Equal(t, "kadence/rowlayout", out.Result.Blocks[0].BlockName)
	assert.Equal(t, "kadence/advancedbtn", out.Result.Blocks[1].BlockName)
	assert.Empty(t, out.RunID, "no store configured")
}

func TestCompose_EmptyInput(t *testing.T) {
	_, err := NewComposer(workingDetector()).Compose(context.Background(), Input{})
	assert.ErrorContains(t, err, "nothing to compose")
}

func TestCompose_DetectorError(t *testing.T) {
	composer := NewComposer(&fakeDetector{err: errors.New("scan failed")})

	_, err := composer.Compose(context.Background(), Input{
		Sections: []assembly.SectionRequest{{ContentType: "hero"}},
	})
	assert.ErrorContains(t, err, "plugin detection failed")
}

func TestCompose_BriefWithoutOutlinerUsesHeuristic(t *testing.T) {
	composer := NewComposer(workingDetector())

	out, err := composer.Compose(context.Background(), Input{
		Brief: &outline.Brief{Title: "Acme Tools"},
	})
	require.NoError(t, err)

	require.Len(t, out.Result.Blocks, 3)
	assert.Equal(t, "hero-1", out.Result.PluginIndicators[0].SectionID)
	assert.Equal(t, "cta-3", out.Result.PluginIndicators[2].SectionID)
}

type fixedGenerator struct{ response string }

func (g *fixedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, nil
}

func TestCompose_BriefWithOutliner(t *testing.T) {
	builder := outline.NewBuilder(&fixedGenerator{response: `{
		"sections": [{"id": "hero-1", "content_type": "hero", "heading": "Generated"}]
	}`})
	composer := NewComposer(workingDetector(), WithOutliner(builder))

	out, err := composer.Compose(context.Background(), Input{
		Brief: &outline.Brief{Title: "Acme"},
	})
	require.NoError(t, err)

	require.Len(t, out.Result.Blocks, 1)
	assert.Equal(t, "hero-1", out.Result.PluginIndicators[0].SectionID)
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (fixedEmbedder) Dimension() int { return 2 }

func TestCompose_RetrieverFillsEmptyBodies(t *testing.T) {
	idx := knowledge.NewMemoryIndex()
	engine := knowledge.NewEngine(fixedEmbedder{}, idx)
	require.NoError(t, engine.IndexChunks(context.Background(), []knowledge.ContentChunk{
		{ID: "about", Title: "About", Kind: "page", Text: "We build wrenches"},
	}))

	composer := NewComposer(workingDetector(), WithRetriever(engine))

	out, err := composer.Compose(context.Background(), Input{
		Sections: []assembly.SectionRequest{
			{ID: "a", ContentType: "content", Heading: "Our story"},
			{ID: "b", ContentType: "content", Heading: "Keep", BodyHTML: "<p>original</p>"},
		},
	})
	require.NoError(t, err)

	enriched := out.Result.Blocks[0]
	require.NotEmpty(t, enriched.InnerBlocks)
	assert.Equal(t, "<p>We build wrenches</p>", enriched.InnerBlocks[len(enriched.InnerBlocks)-1].InnerHTML)

	kept := out.Result.Blocks[1]
	assert.Equal(t, "<p>original</p>", kept.InnerBlocks[len(kept.InnerBlocks)-1].InnerHTML)
}

func TestCompose_RecordsGovernanceRun(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	composer := NewComposer(workingDetector(), WithStore(store))

	out, err := composer.Compose(context.Background(), Input{
		Sections: []assembly.SectionRequest{{ID: "hero-1", ContentType: "hero", Heading: "Welcome"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.RunID)

	rec, err := store.GetRun(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.SectionCount)
	assert.Equal(t, 1, rec.BlockCount)
	require.Len(t, rec.Indicators, 1)
	assert.Equal(t, "kadence/rowlayout", rec.Indicators[0].BlockName)
}
