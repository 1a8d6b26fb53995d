package assembly

import (
	"blocksmith/internal/resolver"
)

// DefaultContentType is substituted when a section arrives without one.
// Malformed sections degrade, they do not error.
const DefaultContentType = "content"

// Media is the optional image attached to a section.
type Media struct {
	ID  int    `json:"id,omitempty" yaml:"id"`
	URL string `json:"url" yaml:"url"`
	Alt string `json:"alt,omitempty" yaml:"alt"`
}

// SectionRequest is one abstract content unit to be rendered as a block.
type SectionRequest struct {
	ID          string               `json:"id" yaml:"id"`
	ContentType string               `json:"content_type" yaml:"content_type"`
	Heading     string               `json:"heading,omitempty" yaml:"heading"`
	BodyHTML    string               `json:"body_html,omitempty" yaml:"body_html"`
	Media       *Media               `json:"media,omitempty" yaml:"media"`
	Preference  *resolver.Preference `json:"preference,omitempty" yaml:"preference"`
}

// Options tunes one Assemble call.
type Options struct {
	// OptimizeImages adds lazy-load and responsive attributes to
	// media-bearing blocks.
	OptimizeImages bool `json:"optimize_images" yaml:"optimize_images"`
	// MaxWorkers bounds concurrent section resolution. Values <= 1 keep
	// the pass sequential. Output order always equals input order.
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers"`
}

// Metadata aggregates per-run metrics.
type Metadata struct {
	BlocksUsed               map[string]int `json:"blocks_used"`
	FallbacksApplied         int            `json:"fallbacks_applied"`
	ValidationWarnings       []string       `json:"validation_warnings"`
	AccessibilityScore       int            `json:"accessibility_score"`
	EstimatedLoadTimeSeconds float64        `json:"estimated_load_time_s"`
}

// Indicator records which plugin/block served a section, for the preview
// renderer to annotate output.
type Indicator struct {
	SectionID    string `json:"section_id"`
	PluginUsed   string `json:"plugin_used"`
	BlockName    string `json:"block_name"`
	FallbackUsed bool   `json:"fallback_used"`
}

// Result is the assembled document. Blocks[i] always corresponds to the
// i-th input section.
type Result struct {
	Blocks           []resolver.Resolved `json:"blocks"`
	Metadata         Metadata            `json:"metadata"`
	PluginIndicators []Indicator         `json:"plugin_indicators"`
}
