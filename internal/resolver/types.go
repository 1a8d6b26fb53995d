package resolver

// AutoPlugin means "no explicit plugin preference": scoring alone decides.
const AutoPlugin = "auto"

// Preference carries the caller's block wishes for one section. The zero
// value is valid and means "auto".
type Preference struct {
	PreferredPlugin   string         `json:"preferred_plugin,omitempty" yaml:"preferred_plugin"`
	PrimaryBlock      string         `json:"primary_block,omitempty" yaml:"primary_block"`
	FallbackBlocks    []string       `json:"fallback_blocks,omitempty" yaml:"fallback_blocks"`
	PatternPreference string         `json:"pattern_preference,omitempty" yaml:"pattern_preference"`
	CustomAttributes  map[string]any `json:"custom_attributes,omitempty" yaml:"custom_attributes"`
}

func (p Preference) preferredPlugin() string {
	if p.PreferredPlugin == "" {
		return AutoPlugin
	}
	return p.PreferredPlugin
}

// Resolved is a concrete block choice. BlockName is never empty, no matter
// how degenerate the registry was.
type Resolved struct {
	PluginKey    string         `json:"plugin_key"`
	BlockName    string         `json:"block_name"`
	FallbackUsed bool           `json:"fallback_used"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	InnerBlocks  []Resolved     `json:"inner_blocks,omitempty"`
	InnerHTML    string         `json:"inner_html,omitempty"`
}

// candidate is one (plugin, block) pair under scoring.
type candidate struct {
	pluginKey string
	blockName string
	score     int
}
