// Package docgen turns an endpoint inventory into Markdown documentation with a text model,
// optionally running a critique and refine loop over the draft.
package docgen

import (
	"context"
	"fmt"
	"strings"

	"route-recon/internal/logger"
	"route-recon/internal/model"
)

// StatusPass is the verdict a reviewer answers with when the draft is accurate
const StatusPass = "STATUS: PASS"

// Generator drafts documentation and, when a reviewer is attached, polishes it
type Generator struct {
	model    Model
	reviewer *Reviewer
}

func NewGenerator(m Model) *Generator {
	return &Generator{model: m}
}

// WithReviewer enables the agentic review loop
func (g *Generator) WithReviewer(r *Reviewer) *Generator {
	g.reviewer = r
	return g
}

// Generate returns Markdown documentation for endpoints
func (g *Generator) Generate(ctx context.Context, endpoints []model.EndpointInfo, projectName string) (string, error) {
	if len(endpoints) == 0 {
		return "", fmt.Errorf("no endpoints to document")
	}
	if strings.TrimSpace(projectName) == "" {
		projectName = "API"
	}

	doc, err := g.model.Generate(ctx, Request{
		System:      writerSystem,
		Prompt:      documentationPrompt(endpoints, projectName),
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("error generating documentation with %s: %w", g.model.Name(), err)
	}

	if g.reviewer != nil {
		doc = g.reviewer.Polish(ctx, doc, endpoints)
	}
	return doc, nil
}

// Reviewer critiques a draft against the extracted endpoints and refines it until
// the critique passes or the round budget is spent
type Reviewer struct {
	model     Model
	maxRounds int
}

func NewReviewer(m Model, maxRounds int) *Reviewer {
	if maxRounds < 1 {
		maxRounds = 1
	}
	return &Reviewer{model: m, maxRounds: maxRounds}
}

// Review runs one round. It reports whether the draft passed and returns the
// draft to keep: the input on a pass, the refined text otherwise.
func (r *Reviewer) Review(ctx context.Context, doc string, endpoints []model.EndpointInfo) (bool, string) {
	critique, err := r.model.Generate(ctx, Request{
		System: reviewerSystem,
		Prompt: critiquePrompt(doc, endpoints),
	})
	if err != nil {
		// A broken reviewer must not block the documentation
		logger.Warn("Documentation critique failed: %v", err)
		return true, doc
	}
	if strings.Contains(critique, StatusPass) {
		return true, doc
	}

	refined, err := r.model.Generate(ctx, Request{
		System:      refinerSystem,
		Prompt:      refinePrompt(doc, critique, endpoints),
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("Documentation refinement failed: %v", err)
		return false, doc
	}
	return false, refined
}

// Polish repeats Review for at most maxRounds rounds
func (r *Reviewer) Polish(ctx context.Context, doc string, endpoints []model.EndpointInfo) string {
	for round := 1; round <= r.maxRounds; round++ {
		if ctx.Err() != nil {
			return doc
		}
		passed, next := r.Review(ctx, doc, endpoints)
		doc = next
		if passed {
			logger.Debug("Documentation review passed in round %d", round)
			return doc
		}
		logger.Info("Review round %d: issues found, draft refined", round)
	}
	return doc
}
