package resolver

import (
	"log"
	"sort"
	"strings"

	"blocksmith/internal/registry"
)

// Scoring bonuses for ranking (plugin, block) candidates. The preference
// bonus dominates any realistic plugin priority delta on purpose.
const (
	scorePreferredPlugin = 100
	scoreActivePlugin    = 50
	scoreSupportsSection = 30
	scoreBlockRegistered = 20
	scoreCorePenalty     = 10
)

// Resolver turns an abstract content type plus a preference into a concrete
// block choice. It is stateless apart from the read-only snapshot and never
// fails: every path ends in a usable block.
type Resolver struct {
	snap *registry.Snapshot
}

func New(snap *registry.Snapshot) *Resolver {
	return &Resolver{snap: snap}
}

// Snapshot exposes the snapshot this resolver reads from.
func (r *Resolver) Snapshot() *registry.Snapshot { return r.snap }

// Resolve picks the best available block for a content type.
//
// The walk is layered: explicit primary block, then the scored priority
// list, then the caller's fallback blocks in order, then the core safety
// net, and as an absolute last resort a bare core/paragraph. Only the
// priority-list hit counts as non-fallback.
func (r *Resolver) Resolve(contentType string, pref Preference) Resolved {
	if contentType == "" {
		contentType = "content"
	}

	// An explicit primary block wins outright when it is registered.
	if pref.PrimaryBlock != "" && r.snap.IsRegistered(pref.PrimaryBlock) {
		return Resolved{
			PluginKey:  r.pluginKeyFor(pref.PrimaryBlock),
			BlockName:  pref.PrimaryBlock,
			Attributes: MergeAttributes(DefaultAttributes(pref.PrimaryBlock), pref.CustomAttributes),
		}
	}

	for _, c := range r.priorityList(contentType, pref) {
		if r.snap.IsRegistered(c.blockName) {
			return Resolved{
				PluginKey:  c.pluginKey,
				BlockName:  c.blockName,
				Attributes: MergeAttributes(DefaultAttributes(c.blockName), pref.CustomAttributes),
			}
		}
	}

	for _, name := range pref.FallbackBlocks {
		if r.snap.IsRegistered(name) {
			return Resolved{
				PluginKey:    r.pluginKeyFor(name),
				BlockName:    name,
				FallbackUsed: true,
				Attributes:   MergeAttributes(DefaultAttributes(name), pref.CustomAttributes),
			}
		}
	}

	for _, name := range safetyNet {
		if r.snap.IsRegistered(name) {
			return Resolved{
				PluginKey:    registry.CorePluginKey,
				BlockName:    name,
				FallbackUsed: true,
				Attributes:   MergeAttributes(DefaultAttributes(name), pref.CustomAttributes),
			}
		}
	}

	// Registry empty or core absent. This path must never fail.
	return Resolved{
		PluginKey:    registry.CorePluginKey,
		BlockName:    "core/paragraph",
		FallbackUsed: true,
		Attributes:   MergeAttributes(DefaultAttributes("core/paragraph"), pref.CustomAttributes),
	}
}

// priorityList builds the scored candidate list for a content type,
// restricted to active plugins, sorted by score descending. The sort is
// stable so mapping order breaks ties.
func (r *Resolver) priorityList(contentType string, pref Preference) []candidate {
	mapping := canonicalBlocks[contentType]
	if mapping == nil {
		mapping = canonicalBlocks["content"]
	}

	preferred := pref.preferredPlugin()
	out := make([]candidate, 0, len(mapping))
	for _, pb := range mapping {
		plugin := r.snap.Get(pb.pluginKey)
		if plugin == nil || !plugin.Active {
			continue
		}
		out = append(out, candidate{
			pluginKey: pb.pluginKey,
			blockName: pb.blockName,
			score:     r.score(plugin, contentType, pb.blockName, preferred),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

func (r *Resolver) score(plugin *registry.PluginDescriptor, contentType, blockName, preferred string) int {
	score := plugin.Priority
	if plugin.Key == preferred {
		score += scorePreferredPlugin
	}
	if plugin.Active {
		score += scoreActivePlugin
	}
	if plugin.Supports(contentType) {
		score += scoreSupportsSection
	}
	if r.snap.IsRegistered(blockName) {
		score += scoreBlockRegistered
	}
	if plugin.Key == registry.CorePluginKey && preferred != registry.CorePluginKey {
		score -= scoreCorePenalty
	}
	return score
}

// pluginKeyFor infers a plugin key from a block's namespace prefix. Unknown
// prefixes resolve to "unknown" and are logged, never fatal.
func (r *Resolver) pluginKeyFor(blockName string) string {
	ns := blockName
	if i := strings.IndexByte(blockName, '/'); i > 0 {
		ns = blockName[:i]
	}
	if key, ok := r.snap.PluginForNamespace(ns); ok {
		return key
	}
	log.Printf("warning: block %q has no known plugin namespace", blockName)
	return "unknown"
}
