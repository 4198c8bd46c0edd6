package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Chunk keys carry provenance: "<document>_<unix>_chunk_<nnnn>". Page and
// section information is recovered from the key first, then from the text.

var (
	pageInKeyPattern  = regexp.MustCompile(`page[_\-]?(\d+)`)
	chunkInKeyPattern = regexp.MustCompile(`chunk[_\-]?(\d+)`)

	pageInTextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bpage\s+(\d{1,4})\b`),
		regexp.MustCompile(`\bp\.?\s*(\d{1,4})\b`),
		regexp.MustCompile(`\bpg\.?\s*(\d{1,4})\b`),
		regexp.MustCompile(`\bpage[:\s\-]+(\d{1,4})\b`),
	}

	chunkKeySuffixPattern = regexp.MustCompile(`_\d{10,}_chunk_\d{4,}`)
	separatorRunPattern   = regexp.MustCompile(`[_\-]+`)
)

// ParsePageNumber recovers the page for a chunk. Order: explicit page
// marker in the chunk key, page markers in the first ten lines of text,
// chunk ordinal plus one, then "unknown".
func ParsePageNumber(chunkKey, text string) string {
	if m := pageInKeyPattern.FindStringSubmatch(strings.ToLower(chunkKey)); m != nil {
		return normalizeNumber(m[1])
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	firstLines := strings.ToLower(strings.Join(lines, "\n"))
	for _, pattern := range pageInTextPatterns {
		if m := pattern.FindStringSubmatch(firstLines); m != nil {
			return normalizeNumber(m[1])
		}
	}

	if m := chunkInKeyPattern.FindStringSubmatch(strings.ToLower(chunkKey)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return strconv.Itoa(n + 1)
		}
	}

	return "unknown"
}

// normalizeNumber strips leading zeros ("0007" reads as page 7).
func normalizeNumber(s string) string {
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}

// ExtractDocumentName strips the upload timestamp and chunk ordinal from a
// chunk key and turns separators into spaces, preserving original casing.
func ExtractDocumentName(chunkKey string) string {
	name := chunkKeySuffixPattern.ReplaceAllString(chunkKey, "")
	name = strings.TrimSpace(separatorRunPattern.ReplaceAllString(name, " "))
	if name == "" {
		return chunkKey
	}
	return name
}

var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)section\s+([IVX\d]+)[:\s]*([^\n]+)`),
	regexp.MustCompile(`(?i)coverage\s+([a-z])\s*[-:]\s*([^\n]+)`),
	regexp.MustCompile(`(?i)(covered causes|exclusions|additional coverages|limits|deductibles)[:\s]*([^\n]*)`),
	regexp.MustCompile(`(?i)(building coverage|business personal property|business income)[:\s]*([^\n]*)`),
	regexp.MustCompile(`(?i)(perils insured|general liability|professional liability|property coverage)[:\s]*([^\n]*)`),
}

// Generic labels that look like headings but carry no information.
var unwantedSections = map[string]bool{
	"document content":   true,
	"general":            true,
	"main document":      true,
	"page":               true,
	"content":            true,
	"text":               true,
	"chunk":              true,
	"coverage details":   true,
	"policy information": true,
	"document":           true,
	"file":               true,
}

// ExtractSectionInfo pulls section and subsection headings from the start
// of a chunk. Only the first 500 characters are scanned; a heading that
// matches the unwanted list is discarded.
func ExtractSectionInfo(text string) (section, subsection string) {
	head := text
	if len(head) > 500 {
		head = head[:500]
	}

	for _, pattern := range sectionPatterns {
		m := pattern.FindStringSubmatch(head)
		if m == nil {
			continue
		}

		section = strings.TrimSpace(m[1])
		if len(m) > 2 {
			subsection = strings.TrimSpace(m[2])
		}

		if unwantedSections[strings.ToLower(section)] {
			section = ""
		}
		if unwantedSections[strings.ToLower(subsection)] {
			subsection = ""
		}

		if section != "" {
			break
		}
	}

	return section, subsection
}
