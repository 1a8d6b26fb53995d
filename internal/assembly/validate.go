package assembly

import (
	"fmt"
	"regexp"

	"blocksmith/internal/resolver"
)

// Structural limits enforced per block.
const (
	maxInternalLinks = 10
	maxTextLength    = 5000
)

var headingTagPattern = regexp.MustCompile(`^h[1-6]$`)

// headingTagAttrs are the attribute names block namespaces use for their
// heading tag when it is expressed as a tag string rather than a level.
var headingTagAttrs = []string{"htmlTag", "headingTag", "titleTag"}

// mediaAttrPairs maps each namespace's media URL attribute to its alt
// attribute, for the alt-text check.
var mediaAttrPairs = [][2]string{
	{"url", "alt"},
	{"bgImg", "bgImgAlt"},
	{"backgroundImgURL", "backgroundImgAlt"},
	{"imageUrl", "imageAlt"},
	{"backgroundImage", "backgroundImageAlt"},
}

// BlockValidationError marks a single section's block as structurally
// invalid. The engine recovers from it locally; it never propagates as a
// hard failure.
type BlockValidationError struct {
	SectionID string
	Reason    string
}

func (e *BlockValidationError) Error() string {
	return fmt.Sprintf("section %q: %s", e.SectionID, e.Reason)
}

// validateNode applies the structural checks of one assembled block. Alt
// text is not checked here: missing alt is auto-repaired by the engine
// rather than failing the section.
func validateNode(node *resolver.Resolved, sectionID string) error {
	if node.BlockName == "" {
		return &BlockValidationError{SectionID: sectionID, Reason: "block has no name"}
	}

	for _, key := range headingTagAttrs {
		raw, ok := node.Attributes[key]
		if !ok {
			continue
		}
		tag, isString := raw.(string)
		if !isString || !headingTagPattern.MatchString(tag) {
			return &BlockValidationError{SectionID: sectionID, Reason: fmt.Sprintf("invalid heading tag %v", raw)}
		}
	}
	if raw, ok := node.Attributes["level"]; ok {
		if level, isInt := raw.(int); !isInt || level < 1 || level > 6 {
			return &BlockValidationError{SectionID: sectionID, Reason: fmt.Sprintf("invalid heading level %v", raw)}
		}
	}

	htmlBody := collectInnerHTML(node)
	if links := countInternalLinks(htmlBody); links > maxInternalLinks {
		return &BlockValidationError{SectionID: sectionID, Reason: fmt.Sprintf("too many internal links (%d > %d)", links, maxInternalLinks)}
	}
	if text := strippedText(htmlBody); len(text) > maxTextLength {
		return &BlockValidationError{SectionID: sectionID, Reason: fmt.Sprintf("content too long (%d > %d characters)", len(text), maxTextLength)}
	}

	return nil
}

// repairMissingAlt inserts a placeholder alt wherever a media URL attribute
// has none. It reports whether a repair happened so the engine can warn and
// dock the accessibility score, but the block itself survives.
func repairMissingAlt(node *resolver.Resolved, heading string) bool {
	repaired := false
	for _, pair := range mediaAttrPairs {
		urlKey, altKey := pair[0], pair[1]
		url, ok := node.Attributes[urlKey].(string)
		if !ok || url == "" {
			continue
		}
		alt, _ := node.Attributes[altKey].(string)
		if alt != "" {
			continue
		}
		placeholder := heading
		if placeholder == "" {
			placeholder = "Decorative image"
		}
		node.Attributes[altKey] = placeholder
		repaired = true
	}
	for i := range node.InnerBlocks {
		if repairMissingAlt(&node.InnerBlocks[i], heading) {
			repaired = true
		}
	}
	return repaired
}

// collectInnerHTML concatenates a block's inner HTML with its nested
// blocks' inner HTML for whole-node inspection.
func collectInnerHTML(node *resolver.Resolved) string {
	out := node.InnerHTML
	for i := range node.InnerBlocks {
		out += collectInnerHTML(&node.InnerBlocks[i])
	}
	return out
}
