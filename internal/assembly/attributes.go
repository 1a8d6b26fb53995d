package assembly

import (
	"strings"

	"blocksmith/internal/resolver"
)

// sectionBuilderFn maps one section's heading/body/media onto a resolved
// block using the namespace's own attribute vocabulary. The table is a
// closed strategy map; unknown namespaces use the core builder.
type sectionBuilderFn func(section SectionRequest, node *resolver.Resolved)

var sectionBuilders = map[string]sectionBuilderFn{
	"kadence":        buildKadenceSection,
	"genesis-blocks": buildGenesisSection,
	"ugb":            buildStackableSection,
	"uagb":           buildUAGBSection,
	"core":           buildCoreSection,
}

func builderFor(blockName string) sectionBuilderFn {
	ns := blockName
	if i := strings.IndexByte(blockName, '/'); i > 0 {
		ns = blockName[:i]
	}
	if fn, ok := sectionBuilders[ns]; ok {
		return fn
	}
	return buildCoreSection
}

// Kadence expresses headings as an advancedheading inner block with
// htmlTag+content, and media as a row background image.
func buildKadenceSection(section SectionRequest, node *resolver.Resolved) {
	if section.Heading != "" {
		node.InnerBlocks = append(node.InnerBlocks, resolver.Resolved{
			PluginKey: node.PluginKey,
			BlockName: "kadence/advancedheading",
			Attributes: map[string]any{
				"htmlTag": "h2",
				"content": section.Heading,
			},
		})
	}
	if section.Media != nil {
		node.Attributes["bgImg"] = section.Media.URL
		node.Attributes["bgImgAlt"] = section.Media.Alt
		if section.Media.ID != 0 {
			node.Attributes["bgImgID"] = section.Media.ID
		}
	}
	appendBodyParagraph(section, node)
}

func buildGenesisSection(section SectionRequest, node *resolver.Resolved) {
	if section.Heading != "" {
		node.InnerBlocks = append(node.InnerBlocks, coreHeading(section.Heading))
	}
	if section.Media != nil {
		node.Attributes["backgroundImgURL"] = section.Media.URL
		node.Attributes["backgroundImgAlt"] = section.Media.Alt
	}
	appendBodyParagraph(section, node)
}

// Stackable blocks carry the heading as a title attribute instead of an
// inner heading block.
func buildStackableSection(section SectionRequest, node *resolver.Resolved) {
	if section.Heading != "" {
		node.Attributes["title"] = section.Heading
		node.Attributes["titleTag"] = "h2"
	}
	if section.Media != nil {
		node.Attributes["imageUrl"] = section.Media.URL
		node.Attributes["imageAlt"] = section.Media.Alt
	}
	appendBodyParagraph(section, node)
}

func buildUAGBSection(section SectionRequest, node *resolver.Resolved) {
	if section.Heading != "" {
		node.InnerBlocks = append(node.InnerBlocks, coreHeading(section.Heading))
	}
	if section.Media != nil {
		node.Attributes["backgroundImage"] = section.Media.URL
		node.Attributes["backgroundImageAlt"] = section.Media.Alt
	}
	appendBodyParagraph(section, node)
}

// Core headings use level+content. Non-container core blocks take the body
// directly as their inner HTML.
func buildCoreSection(section SectionRequest, node *resolver.Resolved) {
	container := strings.HasSuffix(node.BlockName, "/group") ||
		strings.HasSuffix(node.BlockName, "/columns") ||
		strings.HasSuffix(node.BlockName, "/cover")

	if section.Media != nil {
		node.Attributes["url"] = section.Media.URL
		node.Attributes["alt"] = section.Media.Alt
		if section.Media.ID != 0 {
			node.Attributes["id"] = section.Media.ID
		}
	}

	if !container {
		if section.Heading != "" {
			node.Attributes["level"] = 2
			node.Attributes["content"] = section.Heading
		}
		if section.BodyHTML != "" {
			node.InnerHTML = section.BodyHTML
		}
		return
	}

	if section.Heading != "" {
		node.InnerBlocks = append(node.InnerBlocks, coreHeading(section.Heading))
	}
	appendBodyParagraph(section, node)
}

func coreHeading(text string) resolver.Resolved {
	return resolver.Resolved{
		PluginKey: "core",
		BlockName: "core/heading",
		Attributes: map[string]any{
			"level":   2,
			"content": text,
		},
	}
}

func appendBodyParagraph(section SectionRequest, node *resolver.Resolved) {
	if section.BodyHTML == "" {
		return
	}
	node.InnerBlocks = append(node.InnerBlocks, resolver.Resolved{
		PluginKey: "core",
		BlockName: "core/paragraph",
		InnerHTML: section.BodyHTML,
		Attributes: map[string]any{
			"content": strippedText(section.BodyHTML),
		},
	})
}

// applyImageOptimization adds lazy-load and responsive hints to a
// media-bearing node.
func applyImageOptimization(node *resolver.Resolved) {
	node.Attributes["lazyLoad"] = true
	node.Attributes["imgSize"] = "large"
	node.Attributes["responsiveImages"] = true
}
