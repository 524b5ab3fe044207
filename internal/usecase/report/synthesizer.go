package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// completionOp labels synthesis calls in metrics.
const completionOp = "synthesize"

// systemInstruction is the fixed report-structure instruction. The model must
// emit exactly six named sections in order and must never fabricate content
// the excerpts do not support.
const systemInstruction = `You are an experienced Traditional Chinese Medicine clinician writing a structured clinical report for a practitioner.
Base the report ONLY on the knowledge-base excerpts provided. When the excerpts do not cover a section, state that the information was not found in the knowledge base. Never invent diagnoses, points, or formulas.

Write exactly six sections, in this order, each starting with its marker on its own line:

🩺 Primary Diagnosis
📍 Acupuncture Protocol
🌿 Herbal Prescription
🥗 Nutrition Advice
🧘 Lifestyle & Mindset
⚠️ Important Notes

Rules:
- In the Acupuncture Protocol, write every point code in bracket notation, for example [PT:ST36]. Use a "Technique:" line for needling technique and a "Contraindications:" line for cautions.
- In the Herbal Prescription, use "Formula:", "Ingredients:" and "Modifications:" lines.
- Write Nutrition Advice and Lifestyle & Mindset as "-" bullet lists. When an excerpt block names its source collection, end items drawn from it with "(Source: <collection>)".
- Put safety warnings and red flags in Important Notes as "-" bullets.`

// SynthesisInput carries the assembled contexts plus patient metadata for
// one synthesis call.
type SynthesisInput struct {
	TopicName        string
	Language         domain.Language
	Query            string
	PrimaryContext   string
	PrimarySource    string
	NutritionContext string
	NutritionSource  string
	LifestyleContext string
	LifestyleSource  string
	MindsetContext   string
	MindsetSource    string
}

// Synthesizer turns retrieval context into one free-text clinical report via
// a single completion call.
type Synthesizer struct {
	completer Completer
}

// NewSynthesizer creates a report synthesizer.
func NewSynthesizer(completer Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Synthesize issues the completion call and returns the raw report text.
// Provider failures propagate with their kind (rate-limited,
// quota-exhausted, generic).
func (s *Synthesizer) Synthesize(ctx context.Context, in SynthesisInput) (string, error) {
	raw, err := s.completer.Complete(ctx, completionOp, systemInstruction, buildUserPrompt(in))
	if err != nil {
		return "", fmt.Errorf("synthesize report: %w", err)
	}
	return raw, nil
}

// buildUserPrompt concatenates the contexts under labeled headers.
func buildUserPrompt(in SynthesisInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Clinical topic: %s\n", in.TopicName)
	fmt.Fprintf(&b, "Report language: %s\n", reportLanguage(in.Language))
	if in.Query != "" {
		fmt.Fprintf(&b, "Search query: %s\n", in.Query)
	}
	b.WriteString("\n")

	writeContextBlock(&b, "Primary knowledge", in.PrimarySource, in.PrimaryContext)
	writeContextBlock(&b, "Nutrition knowledge", in.NutritionSource, in.NutritionContext)
	writeContextBlock(&b, "Lifestyle knowledge", in.LifestyleSource, in.LifestyleContext)
	writeContextBlock(&b, "Mindset knowledge", in.MindsetSource, in.MindsetContext)

	return b.String()
}

func writeContextBlock(b *strings.Builder, name, source, content string) {
	header := name
	if source != "" {
		header = fmt.Sprintf("%s (source collection: %s)", name, source)
	}
	fmt.Fprintf(b, "=== %s ===\n", header)
	if strings.TrimSpace(content) == "" {
		b.WriteString("No matching excerpts were found in the knowledge base.\n\n")
		return
	}
	b.WriteString(strings.TrimSpace(content))
	b.WriteString("\n\n")
}

func reportLanguage(lang domain.Language) string {
	if lang == domain.LanguageHE {
		return "Hebrew"
	}
	return "English"
}

// ContextFromChunks renders retrieved chunks as excerpt text. Q&A-shaped
// chunks keep their question/answer structure; plain chunks contribute their
// content verbatim.
func ContextFromChunks(chunks []domain.KnowledgeChunk) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		if c.Question != "" {
			fmt.Fprintf(&b, "Q: %s\nA: %s", c.Question, c.Answer)
			continue
		}
		b.WriteString(c.Content)
	}
	return b.String()
}
