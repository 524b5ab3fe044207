package query

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// minFreeTextLen is the free-text-significance threshold. Deliberately crude:
// short non-English tokens and numeric codes fall below it, and downstream
// query results are tuned against exactly this behavior.
const minFreeTextLen = 3

// Builder converts a structured questionnaire into a single retrieval query.
//
// An affirmative answer is a topic signal, so it contributes the question
// text; the literal word "yes" carries no retrieval value. Negative answers
// contribute nothing at all.
type Builder struct {
	affirmative map[string]struct{}
	negative    map[string]struct{}
}

// Default token sets cover English plus the Hebrew questionnaire variants.
var (
	defaultAffirmative = []string{"yes", "y", "true", "כן"}
	defaultNegative    = []string{"no", "n", "n/a", "none", "false", "לא"}
)

// NewBuilder creates a query builder with the default token sets.
func NewBuilder() *Builder {
	return &Builder{
		affirmative: tokenSet(defaultAffirmative),
		negative:    tokenSet(defaultNegative),
	}
}

// WithTokens overrides the affirmative/negative token sets.
func (b *Builder) WithTokens(affirmative, negative []string) *Builder {
	if len(affirmative) > 0 {
		b.affirmative = tokenSet(affirmative)
	}
	if len(negative) > 0 {
		b.negative = tokenSet(negative)
	}
	return b
}

// Build produces the retrieval query for a request. The chief complaint
// leads, questionnaire fragments follow in question-id order, and fragments
// are joined with ". ". An empty result means "no retrieval possible" and is
// not an error.
func (b *Builder) Build(req domain.DeepSearchRequest) string {
	var fragments []string

	if cc := strings.TrimSpace(req.ChiefComplaint); cc != "" {
		fragments = append(fragments, cc)
	}

	// Map iteration order is random; sort by question id so the same
	// questionnaire always builds the same query (and hits the same caches).
	ids := make([]string, 0, len(req.Questionnaire))
	for id := range req.Questionnaire {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if frag := b.fragment(req.Questionnaire[id]); frag != "" {
			fragments = append(fragments, frag)
		}
	}

	return strings.Join(fragments, ". ")
}

// fragment applies the per-entry policy and returns "" when the entry
// contributes nothing.
func (b *Builder) fragment(qa domain.QuestionAnswer) string {
	switch qa.Answer.Kind() {
	case domain.AnswerBool:
		if qa.Answer.Bool() {
			return strings.TrimSpace(qa.QuestionText)
		}
		return ""

	case domain.AnswerList:
		var kept []string
		for _, item := range qa.Answer.List() {
			if b.significant(item) {
				kept = append(kept, strings.TrimSpace(item))
			}
		}
		return strings.Join(kept, " ")

	default:
		text := strings.TrimSpace(qa.Answer.Text())
		if b.isAffirmative(text) {
			return strings.TrimSpace(qa.QuestionText)
		}
		if b.isNegative(text) {
			return ""
		}
		if utf8.RuneCountInString(text) >= minFreeTextLen {
			return text
		}
		return ""
	}
}

// significant reports whether a list element passes the free-text test:
// long enough and not itself an affirmative/negative token.
func (b *Builder) significant(item string) bool {
	item = strings.TrimSpace(item)
	if utf8.RuneCountInString(item) < minFreeTextLen {
		return false
	}
	return !b.isAffirmative(item) && !b.isNegative(item)
}

func (b *Builder) isAffirmative(text string) bool {
	_, ok := b.affirmative[strings.ToLower(text)]
	return ok
}

func (b *Builder) isNegative(text string) bool {
	_, ok := b.negative[strings.ToLower(text)]
	return ok
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}
