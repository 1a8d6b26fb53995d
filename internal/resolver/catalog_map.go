package resolver

// pluginBlock maps a plugin key to its canonical block for a content type.
type pluginBlock struct {
	pluginKey string
	blockName string
}

// canonicalBlocks is the static per-content-type mapping used to build the
// candidate priority list. Order within a slice is significant: score ties
// are broken by this order via a stable sort.
var canonicalBlocks = map[string][]pluginBlock{
	"hero": {
		{"kadence_blocks", "kadence/rowlayout"},
		{"genesis_blocks", "genesis-blocks/gb-container"},
		{"stackable", "ugb/hero"},
		{"ultimate_addons", "uagb/container"},
		{"core", "core/cover"},
	},
	"features": {
		{"kadence_blocks", "kadence/infobox"},
		{"genesis_blocks", "genesis-blocks/gb-columns"},
		{"stackable", "ugb/feature-grid"},
		{"ultimate_addons", "uagb/info-box"},
		{"core", "core/columns"},
	},
	"testimonial": {
		{"kadence_blocks", "kadence/testimonials"},
		{"genesis_blocks", "genesis-blocks/gb-testimonial"},
		{"stackable", "ugb/testimonial"},
		{"ultimate_addons", "uagb/testimonial"},
		{"core", "core/quote"},
	},
	"cta": {
		{"kadence_blocks", "kadence/advancedbtn"},
		{"genesis_blocks", "genesis-blocks/gb-cta"},
		{"stackable", "ugb/cta"},
		{"ultimate_addons", "uagb/call-to-action"},
		{"core", "core/buttons"},
	},
	"pricing": {
		{"kadence_blocks", "kadence/rowlayout"},
		{"genesis_blocks", "genesis-blocks/gb-pricing"},
		{"stackable", "ugb/pricing-box"},
		{"core", "core/columns"},
	},
	"faq": {
		{"kadence_blocks", "kadence/accordion"},
		{"stackable", "ugb/expand"},
		{"ultimate_addons", "uagb/faq"},
		{"core", "core/details"},
	},
	"gallery": {
		{"kadence_blocks", "kadence/advancedgallery"},
		{"stackable", "ugb/image-box"},
		{"core", "core/gallery"},
	},
	"contact": {
		{"kadence_blocks", "kadence/form"},
		{"ultimate_addons", "uagb/forms"},
		{"core", "core/group"},
	},
	"content": {
		{"kadence_blocks", "kadence/rowlayout"},
		{"genesis_blocks", "genesis-blocks/gb-container"},
		{"stackable", "ugb/container"},
		{"ultimate_addons", "uagb/container"},
		{"core", "core/group"},
	},
}

// safetyNet is the fixed core-block chain used when both the priority list
// and the caller's fallback blocks come up empty.
var safetyNet = []string{"core/group", "core/columns", "core/paragraph"}

// ContentTypes returns the content types with a canonical mapping, for
// introspection from the CLI.
func ContentTypes() []string {
	out := make([]string, 0, len(canonicalBlocks))
	for ct := range canonicalBlocks {
		out = append(out, ct)
	}
	return out
}
