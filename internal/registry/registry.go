package registry

import (
	"fmt"
	"sort"
	"strings"
)

// CorePluginKey is the plugin that is always present and always active.
// It is the guaranteed landing spot for every fallback chain.
const CorePluginKey = "core"

// PluginDescriptor describes one installed block-provider plugin as reported
// by the discovery collaborator. Descriptors are read-only after a snapshot
// is built.
type PluginDescriptor struct {
	Key               string          `json:"key" yaml:"key"`
	Name              string          `json:"name" yaml:"name"`
	Active            bool            `json:"active" yaml:"active"`
	Priority          int             `json:"priority" yaml:"priority"`
	Namespace         string          `json:"namespace" yaml:"namespace"`
	SupportedSections map[string]bool `json:"supported_sections" yaml:"-"`
}

// Supports reports whether the plugin advertises support for a content type.
func (p PluginDescriptor) Supports(contentType string) bool {
	return p.SupportedSections[contentType]
}

// BlockDescriptor describes one registered block. FullName is always
// "namespace/block"; the prefix is expected to match a known plugin
// namespace, but unknown prefixes are kept and reported as warnings.
type BlockDescriptor struct {
	FullName            string          `json:"full_name" yaml:"name"`
	SupportsInnerBlocks bool            `json:"supports_inner_blocks" yaml:"inner_blocks"`
	IsContainer         bool            `json:"is_container" yaml:"container"`
	Features            map[string]bool `json:"features" yaml:"-"`
}

// Namespace returns the portion of FullName before the first slash.
func (b BlockDescriptor) Namespace() string {
	if i := strings.IndexByte(b.FullName, '/'); i > 0 {
		return b.FullName[:i]
	}
	return b.FullName
}

// Snapshot is an immutable view of the plugin registry and block catalog for
// the duration of one resolution cycle. The discovery collaborator rebuilds
// it out-of-band; nothing here mutates after construction.
type Snapshot struct {
	plugins     map[string]*PluginDescriptor
	pluginOrder []string
	byPlugin    map[string][]BlockDescriptor
	byName      map[string]BlockDescriptor
	byNamespace map[string]string
	warnings    []string
}

// NewSnapshot builds a snapshot from discovery output. The core plugin is
// inserted (active, priority 1) when the detector did not report it, so a
// snapshot can never be without its safety net. Blocks whose namespace
// matches no plugin are kept but recorded as catalog warnings.
func NewSnapshot(plugins []PluginDescriptor, blocks []BlockDescriptor) *Snapshot {
	s := &Snapshot{
		plugins:     make(map[string]*PluginDescriptor, len(plugins)+1),
		byPlugin:    make(map[string][]BlockDescriptor),
		byName:      make(map[string]BlockDescriptor, len(blocks)),
		byNamespace: make(map[string]string, len(plugins)+1),
	}

	for i := range plugins {
		p := plugins[i]
		if p.Key == "" {
			s.warnings = append(s.warnings, fmt.Sprintf("plugin descriptor %q has no key, skipped", p.Name))
			continue
		}
		if _, dup := s.plugins[p.Key]; dup {
			s.warnings = append(s.warnings, fmt.Sprintf("duplicate plugin key %q, keeping first", p.Key))
			continue
		}
		if p.Key == CorePluginKey {
			// Core must stay active regardless of what the detector says.
			p.Active = true
		}
		if p.SupportedSections == nil {
			p.SupportedSections = map[string]bool{}
		}
		s.plugins[p.Key] = &p
		s.pluginOrder = append(s.pluginOrder, p.Key)
		if p.Namespace != "" {
			s.byNamespace[p.Namespace] = p.Key
		}
	}

	if _, ok := s.plugins[CorePluginKey]; !ok {
		core := &PluginDescriptor{
			Key:               CorePluginKey,
			Name:              "Core Blocks",
			Active:            true,
			Priority:          1,
			Namespace:         CorePluginKey,
			SupportedSections: map[string]bool{},
		}
		s.plugins[CorePluginKey] = core
		s.pluginOrder = append(s.pluginOrder, CorePluginKey)
		s.byNamespace[CorePluginKey] = CorePluginKey
	}

	for _, b := range blocks {
		if b.FullName == "" {
			continue
		}
		if _, dup := s.byName[b.FullName]; dup {
			continue
		}
		if b.Features == nil {
			b.Features = map[string]bool{}
		}
		key, known := s.byNamespace[b.Namespace()]
		if !known {
			s.warnings = append(s.warnings, fmt.Sprintf("block %q belongs to no known plugin namespace", b.FullName))
			key = "unknown"
		}
		s.byName[b.FullName] = b
		s.byPlugin[key] = append(s.byPlugin[key], b)
	}

	return s
}

// Get returns the descriptor for a plugin key. Absence is not an error:
// callers treat a nil result as "unavailable" and continue.
func (s *Snapshot) Get(key string) *PluginDescriptor {
	if s == nil {
		return nil
	}
	return s.plugins[key]
}

// ListActive returns the active plugins in detection order.
func (s *Snapshot) ListActive() []PluginDescriptor {
	if s == nil {
		return nil
	}
	out := make([]PluginDescriptor, 0, len(s.pluginOrder))
	for _, key := range s.pluginOrder {
		if p := s.plugins[key]; p != nil && p.Active {
			out = append(out, *p)
		}
	}
	return out
}

// BlocksFor returns the catalog entries owned by a plugin key.
func (s *Snapshot) BlocksFor(key string) []BlockDescriptor {
	if s == nil {
		return nil
	}
	return append([]BlockDescriptor(nil), s.byPlugin[key]...)
}

// IsRegistered reports whether a full block name exists in the catalog.
func (s *Snapshot) IsRegistered(fullName string) bool {
	if s == nil {
		return false
	}
	_, ok := s.byName[fullName]
	return ok
}

// Block returns the catalog entry for a full block name.
func (s *Snapshot) Block(fullName string) (BlockDescriptor, bool) {
	if s == nil {
		return BlockDescriptor{}, false
	}
	b, ok := s.byName[fullName]
	return b, ok
}

// PluginForNamespace maps a block namespace prefix back to its plugin key.
func (s *Snapshot) PluginForNamespace(ns string) (string, bool) {
	if s == nil {
		return "", false
	}
	key, ok := s.byNamespace[ns]
	return key, ok
}

// AllBlocks returns every catalog entry sorted by full name.
func (s *Snapshot) AllBlocks() []BlockDescriptor {
	if s == nil {
		return nil
	}
	out := make([]BlockDescriptor, 0, len(s.byName))
	for _, b := range s.byName {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

// Warnings returns catalog inconsistencies collected while building the
// snapshot (unknown namespaces, duplicate keys). These never abort anything.
func (s *Snapshot) Warnings() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.warnings...)
}
