package assembly

import (
	"blocksmith/internal/resolver"
)

// Accessibility penalties. The heading heuristic is deliberately shallow:
// it flags heading tags other than h1/h2 inside a block's own HTML, it does
// not track heading order across the document.
const (
	accessibilityMax       = 100
	penaltyMissingAlt      = 10
	penaltyOffLevelHeading = 5
)

// Load-time model constants: a base cost, a per-block cost, and a premium
// for media-bearing blocks.
const (
	loadTimeBase     = 0.2
	loadTimePerBlock = 0.05
	loadTimePerMedia = 0.3
)

func accessibilityScore(blocks []resolver.Resolved, missingAlt int) int {
	score := accessibilityMax - missingAlt*penaltyMissingAlt
	for i := range blocks {
		if hasOffLevelHeading(&blocks[i]) {
			score -= penaltyOffLevelHeading
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func hasOffLevelHeading(node *resolver.Resolved) bool {
	for _, tag := range headingLevels(collectInnerHTML(node)) {
		if tag != "h1" && tag != "h2" {
			return true
		}
	}
	return false
}

func estimatedLoadTime(blockCount, mediaCount int) float64 {
	return loadTimeBase + loadTimePerBlock*float64(blockCount) + loadTimePerMedia*float64(mediaCount)
}

// crossBlockWarnings is the final validation pass over the whole result.
func crossBlockWarnings(res *Result) []string {
	var warnings []string
	if len(res.Blocks) == 0 {
		warnings = append(warnings, "Assembly produced no blocks")
		return warnings
	}
	if res.Metadata.AccessibilityScore < 80 {
		warnings = append(warnings, "Accessibility score below 80")
	}
	if res.Metadata.FallbacksApplied*2 > len(res.Blocks) {
		warnings = append(warnings, "High fallback usage (>50% of blocks)")
	}
	return warnings
}
