package report

import (
	"regexp"
	"sort"
	"strings"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// SourceAttribution carries the collection labels the orchestrator recorded
// for each context, for downstream per-section attribution.
type SourceAttribution struct {
	Primary   string
	Nutrition string
	Lifestyle string
	Mindset   string
}

// Extractor parses the free-text report into structured fields. Stateless
// and side-effect free.
type Extractor struct{}

// NewExtractor creates a report extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses a raw report. Missing sections yield empty fields, never an
// error: a report stating "not found in knowledge base" is a valid report.
func (e *Extractor) Extract(raw string, sources SourceAttribution) domain.StructuredReport {
	sections := SplitSections(raw)
	points := ExtractPointCodes(raw)

	technique, contraindications := parseAcupuncture(sections[SectionAcupuncture])
	formula, ingredients, modifications := parseHerbal(sections[SectionHerbal])

	rep := domain.StructuredReport{
		Diagnosis: domain.DiagnosisSection{
			Text:    sections[SectionDiagnosis],
			Sources: labelList(sources.Primary),
		},
		Acupuncture: domain.AcupunctureSection{
			PointCodes:        points,
			Technique:         technique,
			Contraindications: contraindications,
			Sources:           labelList(sources.Primary),
		},
		Herbal: domain.HerbalSection{
			Formula:       formula,
			Ingredients:   ingredients,
			Modifications: modifications,
			Sources:       labelList(sources.Primary),
		},
		Nutrition:  parseBullets(sections[SectionNutrition], sources.Nutrition),
		Lifestyle:  parseBullets(sections[SectionLifestyle], sources.Lifestyle),
		Warnings:   parseWarnings(sections[SectionNotes]),
		RawReport:  raw,
		PointCodes: points,
		BodyFigure: DeriveBodyFigure(points),
	}

	return rep
}

// SplitSections locates the six fixed markers and slices the text between
// consecutive found markers. A missing marker yields an empty section.
func SplitSections(raw string) map[string]string {
	type marker struct {
		name string
		pos  int
	}

	var found []marker
	for _, name := range sectionOrder {
		if pos := strings.Index(raw, name); pos >= 0 {
			found = append(found, marker{name: name, pos: pos})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	sections := make(map[string]string, len(sectionOrder))
	for _, name := range sectionOrder {
		sections[name] = ""
	}

	for i, m := range found {
		start := m.pos + len(m.name)
		end := len(raw)
		if i+1 < len(found) {
			end = found[i+1].pos
		}
		sections[m.name] = trimSectionBody(raw[start:end])
	}

	return sections
}

// trimSectionBody strips the leftover marker punctuation and surrounding
// whitespace from a section slice.
func trimSectionBody(s string) string {
	s = strings.TrimLeft(s, ":")
	s = strings.Trim(s, " \t\r\n")
	s = strings.TrimLeft(s, "-— \t")
	return strings.Trim(s, " \t\r\n")
}

// sourceTagRe captures the trailing "(Source: <collection>)" tag on a bullet.
var sourceTagRe = regexp.MustCompile(`\(Source:\s*([^)]+)\)\s*$`)

// bulletRe strips list markers: "-", "*", "•", or "1." style numbering.
var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// parseBullets splits a section into list items, lifting "(Source: ...)"
// tags into the item source. Untagged items inherit the section's recorded
// collection label.
func parseBullets(text, defaultSource string) []domain.SourcedItem {
	var items []domain.SourcedItem
	for _, line := range strings.Split(text, "\n") {
		stripped := bulletRe.ReplaceAllString(line, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == "" {
			continue
		}

		source := defaultSource
		if m := sourceTagRe.FindStringSubmatch(stripped); m != nil {
			source = strings.TrimSpace(m[1])
			stripped = strings.TrimSpace(sourceTagRe.ReplaceAllString(stripped, ""))
		}
		if stripped == "" {
			continue
		}

		items = append(items, domain.SourcedItem{Text: stripped, Source: source})
	}
	return items
}

// parseWarnings returns the Important Notes bullets as plain strings.
func parseWarnings(text string) []string {
	var warnings []string
	for _, item := range parseBullets(text, "") {
		warnings = append(warnings, item.Text)
	}
	return warnings
}

// parseAcupuncture lifts the "Technique:" and "Contraindications:" lines out
// of the acupuncture section.
func parseAcupuncture(text string) (technique, contraindications string) {
	fields := parseLabeledLines(text, []string{"technique", "contraindications"})
	return fields["technique"], fields["contraindications"]
}

// parseHerbal lifts the "Formula:", "Ingredients:" and "Modifications:"
// lines out of the herbal section. Leading unlabeled text counts as the
// formula when no explicit "Formula:" line exists.
func parseHerbal(text string) (formula, ingredients, modifications string) {
	fields := parseLabeledLines(text, []string{"formula", "ingredients", "modifications"})
	formula = fields["formula"]
	if formula == "" && fields[""] != "" {
		formula = fields[""]
	}
	return formula, fields["ingredients"], fields["modifications"]
}

// parseLabeledLines groups section lines under "<Label>:" markers
// (case-insensitive). Lines before the first marker land in the "" bucket.
// Continuation lines attach to the last seen label.
func parseLabeledLines(text string, labels []string) map[string]string {
	buckets := make(map[string][]string)
	current := ""

	for _, line := range strings.Split(text, "\n") {
		stripped := bulletRe.ReplaceAllString(line, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == "" {
			continue
		}

		matched := false
		for _, label := range labels {
			prefix := label + ":"
			if len(stripped) >= len(prefix) && strings.EqualFold(stripped[:len(prefix)], prefix) {
				current = label
				rest := strings.TrimSpace(stripped[len(prefix):])
				if rest != "" {
					buckets[current] = append(buckets[current], rest)
				}
				matched = true
				break
			}
		}
		if !matched {
			buckets[current] = append(buckets[current], stripped)
		}
	}

	out := make(map[string]string, len(buckets))
	for label, lines := range buckets {
		out[label] = strings.Join(lines, "\n")
	}
	return out
}

func labelList(label string) []string {
	if label == "" {
		return nil
	}
	return []string{label}
}
