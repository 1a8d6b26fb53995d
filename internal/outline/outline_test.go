package outline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, g.err
}

func TestBuild_NilGeneratorUsesHeuristic(t *testing.T) {
	b := NewBuilder(nil)

	sections := b.Build(context.Background(), Brief{Title: "Acme Tools", Goal: "Sell more wrenches"})

	require.Len(t, sections, 3)
	assert.Equal(t, "hero", sections[0].ContentType)
	assert.Equal(t, "Acme Tools", sections[0].Heading)
	assert.Equal(t, "<p>Sell more wrenches</p>", sections[0].BodyHTML)
	assert.Equal(t, "content", sections[1].ContentType)
	assert.Equal(t, "cta", sections[2].ContentType)
	assert.Equal(t, "Get started", sections[2].Heading)
}

func TestBuild_HeuristicHonorsSectionHints(t *testing.T) {
	b := NewBuilder(nil)

	sections := b.Build(context.Background(), Brief{
		Title:        "Pricing page",
		SectionHints: []string{"pricing", "faq"},
	})

	require.Len(t, sections, 2)
	assert.Equal(t, "pricing-1", sections[0].ID)
	assert.Equal(t, "Pricing", sections[0].Heading)
	assert.Equal(t, "faq-2", sections[1].ID)
	assert.Equal(t, "Faq", sections[1].Heading)
}

func TestBuild_ValidModelOutline(t *testing.T) {
	b := NewBuilder(&stubGenerator{response: `{
		"sections": [
			{"id": "hero-1", "content_type": "hero", "heading": "Welcome", "body_html": "<p>Hi</p>"},
			{"id": "faq-1", "content_type": "faq", "heading": "Questions"}
		]
	}`})

	sections := b.Build(context.Background(), Brief{Title: "Anything"})

	require.Len(t, sections, 2)
	assert.Equal(t, "hero-1", sections[0].ID)
	assert.Equal(t, "hero", sections[0].ContentType)
	assert.Equal(t, "<p>Hi</p>", sections[0].BodyHTML)
	assert.Equal(t, "faq", sections[1].ContentType)
}

func TestBuild_GeneratorErrorFallsBack(t *testing.T) {
	b := NewBuilder(&stubGenerator{err: errors.New("quota exceeded")})

	sections := b.Build(context.Background(), Brief{Title: "Acme"})

	require.Len(t, sections, 3)
	assert.Equal(t, "hero", sections[0].ContentType)
}

func TestBuild_InvalidJSONFallsBack(t *testing.T) {
	b := NewBuilder(&stubGenerator{response: "Sure! Here's an outline: ..."})

	sections := b.Build(context.Background(), Brief{Title: "Acme"})

	require.Len(t, sections, 3)
}

func TestBuild_SchemaViolationFallsBack(t *testing.T) {
	cases := map[string]string{
		"unknown content type": `{"sections": [{"id": "x", "content_type": "sidebar"}]}`,
		"missing id":           `{"sections": [{"content_type": "hero"}]}`,
		"empty sections":       `{"sections": []}`,
		"no sections key":      `{"blocks": []}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			b := NewBuilder(&stubGenerator{response: raw})
			sections := b.Build(context.Background(), Brief{Title: "Acme"})
			require.Len(t, sections, 3, "must degrade to the heuristic outline")
			assert.Equal(t, "hero", sections[0].ContentType)
		})
	}
}

func TestBuildOutlinePrompt_IncludesBriefFields(t *testing.T) {
	prompt := buildOutlinePrompt(Brief{
		Title:        "Acme",
		Goal:         "convert",
		Audience:     "plumbers",
		Keywords:     []string{"wrench", "pipe"},
		SectionHints: []string{"hero", "cta"},
	})

	assert.Contains(t, prompt, "Page title: Acme")
	assert.Contains(t, prompt, "Goal: convert")
	assert.Contains(t, prompt, "Audience: plumbers")
	assert.Contains(t, prompt, "wrench, pipe")
	assert.Contains(t, prompt, "hero, cta")
}

func TestHeuristicOutline_EmptyBrief(t *testing.T) {
	sections := heuristicOutline(Brief{})

	require.Len(t, sections, 3)
	assert.Equal(t, "Untitled page", sections[0].Heading)
}
