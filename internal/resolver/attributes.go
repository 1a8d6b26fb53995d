package resolver

import (
	"strings"

	"github.com/google/uuid"
)

// attributeSkeletonFn produces the namespace-specific default attributes
// for a freshly resolved block. The table is closed: unknown namespaces
// fall through to the core skeleton.
type attributeSkeletonFn func(blockName string) map[string]any

var attributeSkeletons = map[string]attributeSkeletonFn{
	"kadence":        kadenceSkeleton,
	"genesis-blocks": genesisSkeleton,
	"ugb":            stackableSkeleton,
	"uagb":           uagbSkeleton,
	"core":           coreSkeleton,
}

// DefaultAttributes returns the default attribute skeleton for a block,
// keyed off its namespace prefix.
func DefaultAttributes(blockName string) map[string]any {
	ns := blockName
	if i := strings.IndexByte(blockName, '/'); i > 0 {
		ns = blockName[:i]
	}
	fn, ok := attributeSkeletons[ns]
	if !ok {
		fn = coreSkeleton
	}
	return fn(blockName)
}

// MergeAttributes overlays custom attributes onto defaults; custom values
// win on key collision. Neither input map is mutated.
func MergeAttributes(defaults, custom map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(custom))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range custom {
		out[k] = v
	}
	return out
}

func kadenceSkeleton(blockName string) map[string]any {
	attrs := map[string]any{
		"uniqueID": shortID(),
	}
	if strings.HasSuffix(blockName, "/rowlayout") {
		attrs["padding"] = []int{40, 20, 40, 20}
		attrs["colLayout"] = "equal"
	}
	return attrs
}

func genesisSkeleton(blockName string) map[string]any {
	return map[string]any{
		"containerPaddingTop":    2,
		"containerPaddingBottom": 2,
	}
}

func stackableSkeleton(blockName string) map[string]any {
	return map[string]any{
		"uniqueClass": "ugb-" + shortID(),
	}
}

func uagbSkeleton(blockName string) map[string]any {
	return map[string]any{
		"block_id": shortID(),
	}
}

func coreSkeleton(blockName string) map[string]any {
	return map[string]any{}
}

// shortID mimics the 8-hex-char unique block ids the block editors emit.
func shortID() string {
	id := uuid.NewString()
	return strings.ReplaceAll(id, "-", "")[:8]
}
