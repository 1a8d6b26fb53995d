package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blocksmith/internal/registry"
)

func advisorSnapshot() *registry.Snapshot {
	return registry.NewSnapshot(
		[]registry.PluginDescriptor{
			{Key: "kadence_blocks", Name: "Kadence Blocks", Active: true, Priority: 9, Namespace: "kadence"},
			{Key: "stackable", Name: "Stackable", Active: true, Priority: 5, Namespace: "ugb"},
		},
		[]registry.BlockDescriptor{
			{FullName: "kadence/testimonials", SupportsInnerBlocks: true, Features: map[string]bool{"carousel": true, "star-rating": true}},
			{FullName: "ugb/testimonial", Features: map[string]bool{"star-rating": true}},
			{FullName: "core/quote"},
			{FullName: "core/paragraph"},
		},
	)
}

func TestRecommend_TierAndKeywordConfidence(t *testing.T) {
	rec := NewAdvisor(advisorSnapshot()).Recommend("testimonial")

	// base 50 + kadence tier 25 + keyword 15.
	assert.Equal(t, "kadence/testimonials", rec.BlockName)
	assert.Equal(t, "kadence_blocks", rec.PluginKey)
	assert.Equal(t, 90, rec.Confidence)
}

func TestRecommend_AlternativesRankedBySimilarity(t *testing.T) {
	rec := NewAdvisor(advisorSnapshot()).Recommend("testimonial")

	assert.NotEmpty(t, rec.Alternatives)
	assert.Equal(t, "ugb/testimonial", rec.Alternatives[0].BlockName,
		"the near-identical name with a shared feature should rank first")
	assert.Contains(t, rec.Alternatives[0].FeaturesPreserved, "star-rating")
	assert.Contains(t, rec.Alternatives[0].FeaturesLost, "carousel")

	for i := 1; i < len(rec.Alternatives); i++ {
		assert.GreaterOrEqual(t,
			rec.Alternatives[i-1].SimilarityScore,
			rec.Alternatives[i].SimilarityScore)
	}
}

func TestRecommend_AlternativesCappedAtFive(t *testing.T) {
	blocks := []registry.BlockDescriptor{
		{FullName: "core/paragraph"},
		{FullName: "core/quote"},
		{FullName: "core/group"},
		{FullName: "core/columns"},
		{FullName: "core/cover"},
		{FullName: "core/buttons"},
		{FullName: "core/gallery"},
		{FullName: "core/details"},
	}
	rec := NewAdvisor(registry.NewSnapshot(nil, blocks)).Recommend("content")

	assert.Len(t, rec.Alternatives, 5)
}

func TestRecommend_EmptyCatalogDegrades(t *testing.T) {
	rec := NewAdvisor(registry.NewSnapshot(nil, nil)).Recommend("hero")

	assert.Equal(t, "core/paragraph", rec.BlockName)
	assert.Equal(t, "core", rec.PluginKey)
	assert.Equal(t, 50, rec.Confidence)
	assert.Empty(t, rec.Alternatives)
}

func TestRecommend_InactivePluginsExcluded(t *testing.T) {
	snap := registry.NewSnapshot(
		[]registry.PluginDescriptor{
			{Key: "kadence_blocks", Active: false, Priority: 9, Namespace: "kadence"},
		},
		[]registry.BlockDescriptor{
			{FullName: "kadence/testimonials"},
			{FullName: "core/quote"},
		},
	)
	rec := NewAdvisor(snap).Recommend("testimonial")

	assert.Equal(t, "core/quote", rec.BlockName)
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 100, nameSimilarity("kadence/hero", "ugb/hero"),
		"namespaces are stripped before comparing")
	assert.Greater(t, nameSimilarity("ugb/testimonial", "kadence/testimonials"), 80)
	assert.Less(t, nameSimilarity("core/paragraph", "kadence/form"), 30)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("hero", "hero"))
	assert.Equal(t, 4, editDistance("", "hero"))
	assert.Equal(t, 1, editDistance("hero", "heros"))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
}
