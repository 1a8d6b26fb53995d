// Package pipeline wires the collaborators around the assembly core:
// brief -> outline -> context enrichment -> assembly -> governance record.
// Every stage besides assembly itself is optional and degradable.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"blocksmith/internal/assembly"
	"blocksmith/internal/knowledge"
	"blocksmith/internal/outline"
	"blocksmith/internal/registry"
	"blocksmith/internal/resolver"
	"blocksmith/internal/storage"
)

// Composer runs one composition end to end.
type Composer struct {
	detector  registry.Detector
	outliner  *outline.Builder
	retriever *knowledge.Engine
	store     *storage.SQLiteStore
}

// Option configures optional collaborators.
type Option func(*Composer)

func WithOutliner(b *outline.Builder) Option {
	return func(c *Composer) { c.outliner = b }
}

func WithRetriever(e *knowledge.Engine) Option {
	return func(c *Composer) { c.retriever = e }
}

func WithStore(s *storage.SQLiteStore) Option {
	return func(c *Composer) { c.store = s }
}

func NewComposer(detector registry.Detector, opts ...Option) *Composer {
	c := &Composer{detector: detector}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input is one composition request: explicit sections, or a brief for the
// outliner to expand.
type Input struct {
	Sections    []assembly.SectionRequest
	Brief       *outline.Brief
	Options     assembly.Options
	ContextTopK int
}

// Output carries the assembled document plus its governance run id ("" when
// no store is configured).
type Output struct {
	RunID  string
	Result assembly.Result
}

// Compose assembles a page. The only caller-visible failure modes are an
// empty request and a failed catalog scan; everything downstream degrades
// into warnings per the engine's contract.
func (c *Composer) Compose(ctx context.Context, in Input) (*Output, error) {
	if len(in.Sections) == 0 && in.Brief == nil {
		return nil, fmt.Errorf("nothing to compose: provide sections or a brief")
	}

	snap, err := c.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("plugin detection failed: %w", err)
	}
	for _, w := range snap.Warnings() {
		log.Printf("warning: catalog: %s", w)
	}

	sections := in.Sections
	if len(sections) == 0 {
		builder := c.outliner
		if builder == nil {
			builder = outline.NewBuilder(nil)
		}
		sections = builder.Build(ctx, *in.Brief)
	}

	c.enrichSections(ctx, sections, in.ContextTopK)

	engine := assembly.NewEngine(resolver.New(snap))
	result := engine.Assemble(sections, in.Options)

	out := &Output{Result: result}
	if c.store != nil {
		rec := storage.RunRecord{
			ID:                 uuid.NewString(),
			CreatedAt:          time.Now().UTC(),
			SectionCount:       len(sections),
			BlockCount:         len(result.Blocks),
			FallbacksApplied:   result.Metadata.FallbacksApplied,
			AccessibilityScore: result.Metadata.AccessibilityScore,
			EstimatedLoadTime:  result.Metadata.EstimatedLoadTimeSeconds,
			BlocksUsed:         result.Metadata.BlocksUsed,
			Warnings:           result.Metadata.ValidationWarnings,
			Indicators:         result.PluginIndicators,
		}
		if err := c.store.SaveRun(ctx, rec); err != nil {
			log.Printf("warning: failed to record governance run: %v", err)
		} else {
			out.RunID = rec.ID
		}
	}

	return out, nil
}

// enrichSections fills empty section bodies from retrieved site context.
// Retrieval failures only cost the enrichment, never the section.
func (c *Composer) enrichSections(ctx context.Context, sections []assembly.SectionRequest, topK int) {
	if c.retriever == nil {
		return
	}
	if topK <= 0 {
		topK = 3
	}

	for i := range sections {
		if sections[i].BodyHTML != "" {
			continue
		}
		query := sections[i].Heading
		if query == "" {
			query = sections[i].ContentType
		}
		chunks, err := c.retriever.SearchByText(ctx, query, topK)
		if err != nil {
			log.Printf("warning: context retrieval failed for section %q: %v", sections[i].ID, err)
			continue
		}
		if len(chunks) == 0 {
			continue
		}
		sections[i].BodyHTML = "<p>" + chunks[0].Text + "</p>"
	}
}
