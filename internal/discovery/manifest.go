// Package discovery populates registry snapshots from a site manifest: the
// exported description of which block plugins a site runs and which blocks
// they register. The engine itself never performs plugin introspection; it
// only consumes snapshots built here.
package discovery

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blocksmith/internal/registry"
)

// manifest is the on-disk YAML shape.
type manifest struct {
	Plugins []manifestPlugin `yaml:"plugins"`
	Blocks  []manifestBlock  `yaml:"blocks"`
}

type manifestPlugin struct {
	Key       string   `yaml:"key"`
	Name      string   `yaml:"name"`
	Active    bool     `yaml:"active"`
	Priority  int      `yaml:"priority"`
	Namespace string   `yaml:"namespace"`
	Sections  []string `yaml:"sections"`
}

type manifestBlock struct {
	Name        string   `yaml:"name"`
	InnerBlocks bool     `yaml:"inner_blocks"`
	Container   bool     `yaml:"container"`
	Features    []string `yaml:"features"`
}

// ManifestDetector builds snapshots from a manifest file. An empty path
// yields the built-in default snapshot (core blocks only), so the engine
// works with zero configuration.
type ManifestDetector struct {
	Path string
}

func NewManifestDetector(path string) *ManifestDetector {
	return &ManifestDetector{Path: path}
}

func (d *ManifestDetector) Detect(ctx context.Context) (*registry.Snapshot, error) {
	if d.Path == "" {
		return DefaultSnapshot(), nil
	}

	raw, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return snapshotFromManifest(m), nil
}

func snapshotFromManifest(m manifest) *registry.Snapshot {
	plugins := make([]registry.PluginDescriptor, 0, len(m.Plugins))
	for _, p := range m.Plugins {
		sections := make(map[string]bool, len(p.Sections))
		for _, s := range p.Sections {
			sections[s] = true
		}
		plugins = append(plugins, registry.PluginDescriptor{
			Key:               p.Key,
			Name:              p.Name,
			Active:            p.Active,
			Priority:          p.Priority,
			Namespace:         p.Namespace,
			SupportedSections: sections,
		})
	}

	blocks := make([]registry.BlockDescriptor, 0, len(m.Blocks))
	for _, b := range m.Blocks {
		features := make(map[string]bool, len(b.Features))
		for _, f := range b.Features {
			features[f] = true
		}
		blocks = append(blocks, registry.BlockDescriptor{
			FullName:            b.Name,
			SupportsInnerBlocks: b.InnerBlocks,
			IsContainer:         b.Container,
			Features:            features,
		})
	}

	return registry.NewSnapshot(plugins, blocks)
}

// DefaultSnapshot describes a bare site: only core Gutenberg blocks.
func DefaultSnapshot() *registry.Snapshot {
	core := registry.PluginDescriptor{
		Key:       registry.CorePluginKey,
		Name:      "Core Blocks",
		Active:    true,
		Priority:  1,
		Namespace: "core",
		SupportedSections: map[string]bool{
			"hero": true, "features": true, "testimonial": true,
			"cta": true, "gallery": true, "faq": true, "content": true,
		},
	}

	blocks := []registry.BlockDescriptor{
		{FullName: "core/group", SupportsInnerBlocks: true, IsContainer: true},
		{FullName: "core/columns", SupportsInnerBlocks: true, IsContainer: true},
		{FullName: "core/cover", SupportsInnerBlocks: true, IsContainer: true, Features: map[string]bool{"background-image": true}},
		{FullName: "core/heading"},
		{FullName: "core/paragraph"},
		{FullName: "core/image", Features: map[string]bool{"responsive-controls": true}},
		{FullName: "core/quote"},
		{FullName: "core/buttons", SupportsInnerBlocks: true},
		{FullName: "core/gallery", Features: map[string]bool{"responsive-controls": true}},
		{FullName: "core/details", SupportsInnerBlocks: true},
	}

	return registry.NewSnapshot([]registry.PluginDescriptor{core}, blocks)
}
