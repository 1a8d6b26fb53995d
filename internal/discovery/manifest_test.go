package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
plugins:
  - key: kadence_blocks
    name: Kadence Blocks
    active: true
    priority: 9
    namespace: kadence
    sections: [hero, features, cta]
  - key: stackable
    name: Stackable
    active: false
    priority: 5
    namespace: ugb
blocks:
  - name: kadence/rowlayout
    inner_blocks: true
    container: true
    features: [background-image, responsive-controls]
  - name: ugb/hero
    inner_blocks: true
`

func TestManifestDetector_ParsesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	snap, err := NewManifestDetector(path).Detect(context.Background())
	require.NoError(t, err)

	kadence := snap.Get("kadence_blocks")
	require.NotNil(t, kadence)
	assert.True(t, kadence.Active)
	assert.Equal(t, 9, kadence.Priority)
	assert.True(t, kadence.Supports("hero"))
	assert.False(t, kadence.Supports("faq"))

	stackable := snap.Get("stackable")
	require.NotNil(t, stackable)
	assert.False(t, stackable.Active)

	row, ok := snap.Block("kadence/rowlayout")
	require.True(t, ok)
	assert.True(t, row.IsContainer)
	assert.True(t, row.Features["background-image"])

	require.NotNil(t, snap.Get("core"), "core is always present")
}

func TestManifestDetector_EmptyPathUsesDefault(t *testing.T) {
	snap, err := NewManifestDetector("").Detect(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.IsRegistered("core/paragraph"))
	assert.True(t, snap.IsRegistered("core/group"))
	assert.True(t, snap.Get("core").Supports("hero"))
}

func TestManifestDetector_MissingFile(t *testing.T) {
	_, err := NewManifestDetector(filepath.Join(t.TempDir(), "nope.yaml")).Detect(context.Background())
	assert.ErrorContains(t, err, "failed to read manifest")
}

func TestManifestDetector_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins: [oops"), 0o644))

	_, err := NewManifestDetector(path).Detect(context.Background())
	assert.ErrorContains(t, err, "failed to parse manifest")
}

func TestDefaultSnapshot_CatalogShape(t *testing.T) {
	snap := DefaultSnapshot()

	assert.Len(t, snap.BlocksFor("core"), 10)
	assert.Empty(t, snap.Warnings())
}
