package usecase

import (
	"fmt"
	"strings"
)

// PromptContext is one retrieved chunk as it appears in the prompt, tagged
// with its 1-based citation marker.
type PromptContext struct {
	Marker      int
	Title       string
	SourceTitle string
	URL         string
	ChunkText   string
}

// PromptInput contains the pieces that feed into the prompt builder.
type PromptInput struct {
	Query    string
	Contexts []PromptContext
}

// PromptBuilder renders the grounded prompt sent to the language model.
// It is a pure function of its input and performs no I/O.
type PromptBuilder interface {
	Build(input PromptInput) (string, error)
}

// GroundedPromptBuilder assembles a prompt with a CONTEXT section of
// marker-tagged chunks, a CITATIONS list mapping markers to provenance,
// and fixed grounding instructions. The formatting rules are a
// prompt-engineering contract with the model, not something the engine
// parses back.
type GroundedPromptBuilder struct {
	additionalInstructions []string
}

// NewGroundedPromptBuilder creates a prompt builder with optional extra
// instruction lines appended.
func NewGroundedPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &GroundedPromptBuilder{additionalInstructions: additionalInstructions}
}

func (b *GroundedPromptBuilder) Build(input PromptInput) (string, error) {
	if strings.TrimSpace(input.Query) == "" {
		return "", fmt.Errorf("query is required")
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful assistant that answers questions about recent news.\n\n")

	sb.WriteString("CONTEXT:\n")
	for _, ctx := range input.Contexts {
		sb.WriteString(fmt.Sprintf("[%d] %s\n\n", ctx.Marker, strings.TrimSpace(ctx.ChunkText)))
	}

	sb.WriteString("CITATIONS:\n")
	for _, ctx := range input.Contexts {
		title := ctx.Title
		if title == "" {
			title = "Untitled article"
		}
		sb.WriteString(fmt.Sprintf("[%d] %s — %s (%s)\n", ctx.Marker, title, ctx.SourceTitle, ctx.URL))
	}
	sb.WriteString("\n")

	sb.WriteString("QUERY:\n")
	sb.WriteString(input.Query)
	sb.WriteString("\n\n")

	instructions := []string{
		"Answer the query using only the information in CONTEXT above.",
		"Cite the passages supporting each claim inline with their bracketed markers, e.g. [1].",
		"If the context does not contain enough information for a confident answer, say so, but offer what the context does support.",
		"End your reply with a \"Sources:\" section listing every marker you used with its title and URL from CITATIONS.",
	}
	instructions = append(instructions, b.additionalInstructions...)
	for _, line := range instructions {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
