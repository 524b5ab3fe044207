package report

import (
	"regexp"
	"sort"
	"strings"
)

// bracketPointRe matches the literal [PT:CODE] notation the synthesizer asks
// for: a meridian abbreviation of 1-4 letters followed by 1-2 digits.
var bracketPointRe = regexp.MustCompile(`(?i)\[PT:\s*([A-Z]{1,4})[ -]?([0-9]{1,2})\s*\]`)

// barePointRe matches unbracketed mentions of known meridian codes,
// optionally with a hyphen or space between letters and digits. Restricting
// the prefix to the meridian set keeps ordinary words from matching.
var barePointRe = regexp.MustCompile(
	`(?i)\b(LU|LI|ST|SP|HT|SI|BL|KI|PC|TE|TB|SJ|GB|LR|LV|RN|DU|CV|GV|EX)[ -]?([0-9]{1,2})\b`,
)

// ExtractPointCodes scans a report for acupuncture point codes in both
// bracketed and bare form, normalized to uppercase and de-duplicated in
// first-seen (positional) order.
func ExtractPointCodes(raw string) []string {
	type hit struct {
		pos  int
		code string
	}

	var hits []hit
	for _, re := range []*regexp.Regexp{bracketPointRe, barePointRe} {
		for _, idx := range re.FindAllStringSubmatchIndex(raw, -1) {
			letters := raw[idx[2]:idx[3]]
			digits := raw[idx[4]:idx[5]]
			hits = append(hits, hit{pos: idx[0], code: strings.ToUpper(letters) + digits})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[string]struct{}, len(hits))
	var codes []string
	for _, h := range hits {
		if _, ok := seen[h.code]; ok {
			continue
		}
		seen[h.code] = struct{}{}
		codes = append(codes, h.code)
	}
	return codes
}
