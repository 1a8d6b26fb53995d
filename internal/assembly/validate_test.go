package assembly

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocksmith/internal/resolver"
)

func TestValidateNode(t *testing.T) {
	cases := []struct {
		name    string
		node    resolver.Resolved
		wantErr string
	}{
		{
			name:    "unnamed block",
			node:    resolver.Resolved{},
			wantErr: "block has no name",
		},
		{
			name: "valid heading tag",
			node: resolver.Resolved{
				BlockName:  "kadence/advancedheading",
				Attributes: map[string]any{"htmlTag": "h3"},
			},
		},
		{
			name: "heading tag out of range",
			node: resolver.Resolved{
				BlockName:  "kadence/advancedheading",
				Attributes: map[string]any{"htmlTag": "h7"},
			},
			wantErr: "invalid heading tag",
		},
		{
			name: "non-string heading tag",
			node: resolver.Resolved{
				BlockName:  "ugb/hero",
				Attributes: map[string]any{"titleTag": 2},
			},
			wantErr: "invalid heading tag",
		},
		{
			name: "level out of range",
			node: resolver.Resolved{
				BlockName:  "core/heading",
				Attributes: map[string]any{"level": 0},
			},
			wantErr: "invalid heading level",
		},
		{
			name: "text too long",
			node: resolver.Resolved{
				BlockName:  "core/paragraph",
				Attributes: map[string]any{},
				InnerHTML:  "<p>" + strings.Repeat("a", maxTextLength+1) + "</p>",
			},
			wantErr: "content too long",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateNode(&tc.node, "s1")
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *BlockValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "s1", verr.SectionID)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRepairMissingAlt_Recurses(t *testing.T) {
	node := resolver.Resolved{
		BlockName:  "core/group",
		Attributes: map[string]any{},
		InnerBlocks: []resolver.Resolved{{
			BlockName: "core/image",
			Attributes: map[string]any{
				"url": "https://example.com/a.jpg",
			},
		}},
	}

	repaired := repairMissingAlt(&node, "Our team")

	assert.True(t, repaired)
	assert.Equal(t, "Our team", node.InnerBlocks[0].Attributes["alt"])
}

func TestRepairMissingAlt_LeavesExistingAlt(t *testing.T) {
	node := resolver.Resolved{
		BlockName: "core/image",
		Attributes: map[string]any{
			"url": "https://example.com/a.jpg",
			"alt": "A lighthouse",
		},
	}

	assert.False(t, repairMissingAlt(&node, "ignored"))
	assert.Equal(t, "A lighthouse", node.Attributes["alt"])
}

func TestCountInternalLinks(t *testing.T) {
	fragment := `
		<p><a href="/pricing">internal</a></p>
		<p><a href="https://example.com">external</a></p>
		<p><a href="mailto:hi@example.com">mail</a></p>
		<p><a href="#faq">fragment</a></p>
		<p><a>no href</a></p>`

	assert.Equal(t, 2, countInternalLinks(fragment))
}

func TestStrippedText(t *testing.T) {
	assert.Equal(t, "Build faster.", strippedText("<p>Build <strong>faster</strong>.</p>"))
	assert.Equal(t, "plain", strippedText(" plain "))
}

func TestHeadingLevels(t *testing.T) {
	tags := headingLevels("<h2>a</h2><div><h4>b</h4></div><p>c</p>")
	assert.Equal(t, []string{"h2", "h4"}, tags)
}
