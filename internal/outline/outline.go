// Package outline turns a prose content brief into an ordered list of
// abstract sections for the assembly engine. The LLM path is best-effort:
// any model or schema failure degrades to a deterministic heuristic
// outline, because a usable page beats a perfect error message.
package outline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"blocksmith/internal/assembly"
	"blocksmith/internal/knowledge"
)

// Brief is the caller's description of the page to compose.
type Brief struct {
	Title    string   `json:"title" yaml:"title"`
	Goal     string   `json:"goal,omitempty" yaml:"goal"`
	Audience string   `json:"audience,omitempty" yaml:"audience"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
	// SectionHints force specific content types into the outline, in order.
	SectionHints []string `json:"section_hints,omitempty" yaml:"section_hints"`
}

type outlineDoc struct {
	Sections []outlineSection `json:"sections"`
}

type outlineSection struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type"`
	Heading     string `json:"heading"`
	BodyHTML    string `json:"body_html"`
}

// Builder generates outlines. A nil Generator means heuristic-only.
type Builder struct {
	llm knowledge.Generator
}

func NewBuilder(llm knowledge.Generator) *Builder {
	return &Builder{llm: llm}
}

// Build produces the section list for a brief.
func (b *Builder) Build(ctx context.Context, brief Brief) []assembly.SectionRequest {
	if b.llm == nil {
		return heuristicOutline(brief)
	}

	raw, err := b.llm.Generate(ctx, buildOutlinePrompt(brief))
	if err != nil {
		log.Printf("warning: outline generation failed, using heuristic outline: %v", err)
		return heuristicOutline(brief)
	}

	doc, err := validateOutlineJSON(raw)
	if err != nil {
		log.Printf("warning: %v; using heuristic outline", err)
		return heuristicOutline(brief)
	}

	sections := make([]assembly.SectionRequest, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		sections = append(sections, assembly.SectionRequest{
			ID:          s.ID,
			ContentType: s.ContentType,
			Heading:     s.Heading,
			BodyHTML:    s.BodyHTML,
		})
	}
	return sections
}

func buildOutlinePrompt(brief Brief) string {
	var sb strings.Builder
	sb.WriteString("You are a content strategist planning a web page. Produce a JSON object with a \"sections\" array.\n")
	sb.WriteString("Each section has: id (kebab-case string), content_type (one of hero, features, testimonial, cta, pricing, faq, gallery, contact, content), heading, body_html (one or two short <p> paragraphs).\n")
	sb.WriteString("Respond with JSON only, no commentary.\n\n")
	fmt.Fprintf(&sb, "Page title: %s\n", brief.Title)
	if brief.Goal != "" {
		fmt.Fprintf(&sb, "Goal: %s\n", brief.Goal)
	}
	if brief.Audience != "" {
		fmt.Fprintf(&sb, "Audience: %s\n", brief.Audience)
	}
	if len(brief.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(brief.Keywords, ", "))
	}
	if len(brief.SectionHints) > 0 {
		fmt.Fprintf(&sb, "Required section types, in order: %s\n", strings.Join(brief.SectionHints, ", "))
	}
	return sb.String()
}

// heuristicOutline is the deterministic fallback: the brief's hints, or the
// classic hero / content / cta landing-page skeleton.
func heuristicOutline(brief Brief) []assembly.SectionRequest {
	types := brief.SectionHints
	if len(types) == 0 {
		types = []string{"hero", "content", "cta"}
	}

	title := strings.TrimSpace(brief.Title)
	if title == "" {
		title = "Untitled page"
	}

	sections := make([]assembly.SectionRequest, 0, len(types))
	for i, ct := range types {
		sec := assembly.SectionRequest{
			ID:          fmt.Sprintf("%s-%d", ct, i+1),
			ContentType: ct,
		}
		switch ct {
		case "hero":
			sec.Heading = title
			if brief.Goal != "" {
				sec.BodyHTML = "<p>" + brief.Goal + "</p>"
			}
		case "cta":
			sec.Heading = "Get started"
		default:
			sec.Heading = strings.ToUpper(ct[:1]) + ct[1:]
		}
		sections = append(sections, sec)
	}
	return sections
}
