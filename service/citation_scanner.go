package service

import (
	"regexp"
	"strings"

	"advocateasy-backend/models"
)

// Citation extraction over assistant markdown. Three independent passes:
// bare URLs, markdown links, statutory references. Output is de-duplicated
// by title, first occurrence wins, pass order preserved.

var (
	bareURLPattern      = regexp.MustCompile(`https?://[^\s)]+`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)
	statutePattern      = regexp.MustCompile(`(?:Section|Article|Order|Rule)\s+\d+[A-Za-z]*|(?:The\s+)?[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+Act(?:,\s+\d{4})?`)
)

// degenerate matches against the pattern's own anchor words
var statuteStopWords = map[string]bool{
	"The":     true,
	"Act":     true,
	"Section": true,
}

// lookback window used to detect a markdown link target opener
const linkOpenerLookback = 10

// scanBareURLs finds raw URLs outside markdown link targets. A URL whose
// preceding characters end with "](" is the target half of a markdown link
// and is left for scanMarkdownLinks so it is not counted twice.
func scanBareURLs(text string) []models.Citation {
	var out []models.Citation
	for _, loc := range bareURLPattern.FindAllStringIndex(text, -1) {
		start := loc[0] - linkOpenerLookback
		if start < 0 {
			start = 0
		}
		if strings.HasSuffix(text[start:loc[0]], "](") {
			continue
		}
		url := text[loc[0]:loc[1]]
		out = append(out, models.Citation{
			Kind:   models.CitationLink,
			Title:  url,
			Target: url,
		})
	}
	return out
}

// scanMarkdownLinks finds [label](url) occurrences.
func scanMarkdownLinks(text string) []models.Citation {
	var out []models.Citation
	for _, m := range markdownLinkPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, models.Citation{
			Kind:   models.CitationLink,
			Title:  m[1],
			Target: m[2],
		})
	}
	return out
}

// scanStatutes finds section-style identifiers (Section 138, Article 21)
// and capitalized act phrases (The Copyright Act, 1957).
func scanStatutes(text string) []models.Citation {
	var out []models.Citation
	for _, m := range statutePattern.FindAllString(text, -1) {
		if statuteStopWords[m] {
			continue
		}
		out = append(out, models.Citation{
			Kind:  models.CitationStatute,
			Title: m,
		})
	}
	return out
}

// ScanCitations extracts all citations from an assistant response.
// Absence of matches yields an empty slice; malformed markdown never
// errors, it only fails to match.
func ScanCitations(text string) []models.Citation {
	if text == "" {
		return nil
	}

	var all []models.Citation
	all = append(all, scanBareURLs(text)...)
	all = append(all, scanMarkdownLinks(text)...)
	all = append(all, scanStatutes(text)...)

	seen := make(map[string]bool, len(all))
	unique := make([]models.Citation, 0, len(all))
	for _, c := range all {
		if seen[c.Title] {
			continue
		}
		seen[c.Title] = true
		unique = append(unique, c)
	}
	return unique
}

// MergeCitations unions newly extracted citations into a case's reference
// collection, keeping existing entries and discovery order.
func MergeCitations(existing, found []models.Citation) []models.Citation {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.Title] = true
	}
	merged := existing
	for _, c := range found {
		if seen[c.Title] {
			continue
		}
		seen[c.Title] = true
		merged = append(merged, c)
	}
	return merged
}
