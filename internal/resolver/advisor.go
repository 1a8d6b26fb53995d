package resolver

import (
	"sort"
	"strings"

	"blocksmith/internal/registry"
)

// Advisor independently recommends the best-available block for a content
// type, with a confidence score and ranked alternatives. It is an advisory
// surface (shown to a human reviewer), not part of the resolver's hot path.
type Advisor struct {
	snap *registry.Snapshot
}

func NewAdvisor(snap *registry.Snapshot) *Advisor {
	return &Advisor{snap: snap}
}

// Recommendation is the advisor's answer for one content type.
type Recommendation struct {
	BlockName    string        `json:"block_name"`
	PluginKey    string        `json:"plugin_key"`
	Confidence   int           `json:"confidence"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// Alternative is a runner-up block with a feature-loss comparison against
// the recommended one.
type Alternative struct {
	BlockName         string   `json:"block_name"`
	PluginKey         string   `json:"plugin_key"`
	SimilarityScore   int      `json:"similarity_score"`
	FeaturesPreserved []string `json:"features_preserved,omitempty"`
	FeaturesLost      []string `json:"features_lost,omitempty"`
	FeaturesGained    []string `json:"features_gained,omitempty"`
}

// pluginTierBonus ranks block providers by ecosystem maturity for
// confidence scoring. Unlisted plugins get the floor bonus.
var pluginTierBonus = map[string]int{
	"kadence_blocks":  25,
	"genesis_blocks":  20,
	"stackable":       20,
	"ultimate_addons": 20,
	"core":            15,
}

const (
	confidenceBase     = 50
	confidenceKeyword  = 15
	tierFloorBonus     = 10
	similaritySamePlug = 20
	similarityFeature  = 10
)

// contentKeywords maps a content type to name fragments that suggest a
// block was built for it.
var contentKeywords = map[string][]string{
	"hero":        {"hero", "cover", "rowlayout", "container"},
	"features":    {"feature", "infobox", "info-box", "columns"},
	"testimonial": {"testimonial", "quote", "review"},
	"cta":         {"cta", "call-to-action", "button"},
	"pricing":     {"pricing", "price"},
	"faq":         {"faq", "accordion", "expand", "details"},
	"gallery":     {"gallery", "image"},
	"contact":     {"form", "contact"},
	"content":     {"group", "container", "paragraph"},
}

// Recommend scores every registered block of every active plugin and
// returns the strongest candidate plus up to five alternatives. With an
// empty catalog the recommendation degrades to core/paragraph at base
// confidence rather than failing.
func (a *Advisor) Recommend(contentType string) Recommendation {
	if contentType == "" {
		contentType = "content"
	}

	type scored struct {
		block      registry.BlockDescriptor
		pluginKey  string
		confidence int
	}

	var candidates []scored
	for _, plugin := range a.snap.ListActive() {
		for _, block := range a.snap.BlocksFor(plugin.Key) {
			candidates = append(candidates, scored{
				block:      block,
				pluginKey:  plugin.Key,
				confidence: a.confidence(contentType, plugin.Key, block.FullName),
			})
		}
	}

	if len(candidates) == 0 {
		return Recommendation{
			BlockName:  "core/paragraph",
			PluginKey:  registry.CorePluginKey,
			Confidence: confidenceBase,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	best := candidates[0]
	rec := Recommendation{
		BlockName:  best.block.FullName,
		PluginKey:  best.pluginKey,
		Confidence: clampScore(best.confidence),
	}

	alts := make([]Alternative, 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		alts = append(alts, a.compare(best.block, best.pluginKey, c.block, c.pluginKey))
	}
	sort.SliceStable(alts, func(i, j int) bool {
		return alts[i].SimilarityScore > alts[j].SimilarityScore
	})
	if len(alts) > 5 {
		alts = alts[:5]
	}
	rec.Alternatives = alts
	return rec
}

func (a *Advisor) confidence(contentType, pluginKey, blockName string) int {
	score := confidenceBase
	if bonus, ok := pluginTierBonus[pluginKey]; ok {
		score += bonus
	} else {
		score += tierFloorBonus
	}
	if nameMatchesContentType(blockName, contentType) {
		score += confidenceKeyword
	}
	return clampScore(score)
}

// compare builds an alternative entry: similarity combines a same-plugin
// bonus, fuzzy name similarity (scaled x0.8) and matching feature flags.
func (a *Advisor) compare(chosen registry.BlockDescriptor, chosenPlugin string, alt registry.BlockDescriptor, altPlugin string) Alternative {
	score := 0
	if altPlugin == chosenPlugin {
		score += similaritySamePlug
	}
	score += int(float64(nameSimilarity(chosen.FullName, alt.FullName)) * 0.8)

	preserved, lost, gained := diffFeatures(chosen, alt)
	score += len(preserved) * similarityFeature

	return Alternative{
		BlockName:         alt.FullName,
		PluginKey:         altPlugin,
		SimilarityScore:   clampScore(score),
		FeaturesPreserved: preserved,
		FeaturesLost:      lost,
		FeaturesGained:    gained,
	}
}

// diffFeatures compares feature sets plus the two structural booleans.
func diffFeatures(chosen, alt registry.BlockDescriptor) (preserved, lost, gained []string) {
	chosenSet := featureSet(chosen)
	altSet := featureSet(alt)
	for f := range chosenSet {
		if altSet[f] {
			preserved = append(preserved, f)
		} else {
			lost = append(lost, f)
		}
	}
	for f := range altSet {
		if !chosenSet[f] {
			gained = append(gained, f)
		}
	}
	sort.Strings(preserved)
	sort.Strings(lost)
	sort.Strings(gained)
	return preserved, lost, gained
}

func featureSet(b registry.BlockDescriptor) map[string]bool {
	out := make(map[string]bool, len(b.Features)+2)
	for f, on := range b.Features {
		if on {
			out[f] = true
		}
	}
	if b.SupportsInnerBlocks {
		out["inner-blocks"] = true
	}
	if b.IsContainer {
		out["container"] = true
	}
	return out
}

func nameMatchesContentType(blockName, contentType string) bool {
	name := strings.ToLower(blockName)
	keywords := contentKeywords[contentType]
	if len(keywords) == 0 {
		keywords = []string{contentType}
	}
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func clampScore(s int) int {
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}
