package assembly

import (
	"fmt"
	"sync"

	"blocksmith/internal/registry"
	"blocksmith/internal/resolver"
)

// Engine assembles abstract sections into concrete block nodes. It holds no
// mutable state between calls; the snapshot behind the resolver is treated
// as immutable for the duration of one Assemble.
type Engine struct {
	resolver *resolver.Resolver
}

func NewEngine(res *resolver.Resolver) *Engine {
	return &Engine{resolver: res}
}

// built is the per-section intermediate: everything the aggregation pass
// needs, produced independently so sections can be resolved concurrently.
type built struct {
	node       resolver.Resolved
	indicator  Indicator
	warnings   []string
	missingAlt bool
	hasMedia   bool
}

// Assemble transforms sections into blocks in input order. Sections fail
// individually: a structurally invalid block is replaced with a generic
// core fallback and warned about, never aborting the whole run.
func (e *Engine) Assemble(sections []SectionRequest, opts Options) Result {
	results := make([]built, len(sections))

	if opts.MaxWorkers > 1 && len(sections) > 1 {
		e.buildConcurrently(sections, opts, results)
	} else {
		for i, section := range sections {
			results[i] = e.buildSection(section, i, opts)
		}
	}

	res := Result{
		Blocks:           make([]resolver.Resolved, 0, len(sections)),
		PluginIndicators: make([]Indicator, 0, len(sections)),
		Metadata: Metadata{
			BlocksUsed:         map[string]int{},
			ValidationWarnings: []string{},
		},
	}

	missingAlt := 0
	mediaBlocks := 0
	for _, b := range results {
		res.Blocks = append(res.Blocks, b.node)
		res.PluginIndicators = append(res.PluginIndicators, b.indicator)
		res.Metadata.BlocksUsed[b.indicator.PluginUsed]++
		if b.indicator.FallbackUsed {
			res.Metadata.FallbacksApplied++
		}
		res.Metadata.ValidationWarnings = append(res.Metadata.ValidationWarnings, b.warnings...)
		if b.missingAlt {
			missingAlt++
		}
		if b.hasMedia {
			mediaBlocks++
		}
	}

	res.Metadata.AccessibilityScore = accessibilityScore(res.Blocks, missingAlt)
	res.Metadata.EstimatedLoadTimeSeconds = estimatedLoadTime(len(res.Blocks), mediaBlocks)
	res.Metadata.ValidationWarnings = append(res.Metadata.ValidationWarnings, crossBlockWarnings(&res)...)

	return res
}

// buildConcurrently fans sections out over a bounded worker pool. Results
// land in an indexed slice, so output order stays equal to input order no
// matter which worker finishes first.
func (e *Engine) buildConcurrently(sections []SectionRequest, opts Options, results []built) {
	workers := opts.MaxWorkers
	if workers > len(sections) {
		workers = len(sections)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.buildSection(sections[i], i, opts)
			}
		}()
	}

	for i := range sections {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// buildSection resolves one section and shapes the concrete node. All
// failure modes end in a usable block.
func (e *Engine) buildSection(section SectionRequest, index int, opts Options) built {
	if section.ID == "" {
		section.ID = fmt.Sprintf("section-%d", index+1)
	}
	if section.ContentType == "" {
		section.ContentType = DefaultContentType
	}

	var pref resolver.Preference
	if section.Preference != nil {
		pref = *section.Preference
	}

	node := e.resolver.Resolve(section.ContentType, pref)
	builderFor(node.BlockName)(section, &node)
	if opts.OptimizeImages && section.Media != nil {
		applyImageOptimization(&node)
	}

	b := built{
		node:     node,
		hasMedia: section.Media != nil,
		indicator: Indicator{
			SectionID:    section.ID,
			PluginUsed:   node.PluginKey,
			BlockName:    node.BlockName,
			FallbackUsed: node.FallbackUsed,
		},
	}

	if repairMissingAlt(&b.node, section.Heading) {
		b.missingAlt = true
		b.warnings = append(b.warnings, fmt.Sprintf("Image missing alt text (section %q)", section.ID))
	}

	if err := validateNode(&b.node, section.ID); err != nil {
		b.node = fallbackNode(section)
		b.indicator.PluginUsed = registry.CorePluginKey
		b.indicator.BlockName = b.node.BlockName
		b.indicator.FallbackUsed = true
		b.warnings = append(b.warnings, fmt.Sprintf("%v; substituted generic fallback", err))
	}

	return b
}

// fallbackNode wraps the raw section content in a core/group + paragraph,
// the generic substitution used when validation rejects a block.
func fallbackNode(section SectionRequest) resolver.Resolved {
	inner := resolver.Resolved{
		PluginKey:  registry.CorePluginKey,
		BlockName:  "core/paragraph",
		InnerHTML:  section.BodyHTML,
		Attributes: map[string]any{"content": strippedText(section.BodyHTML)},
	}
	return resolver.Resolved{
		PluginKey:    registry.CorePluginKey,
		BlockName:    "core/group",
		FallbackUsed: true,
		Attributes:   map[string]any{},
		InnerBlocks:  []resolver.Resolved{inner},
	}
}
