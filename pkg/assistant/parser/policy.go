package parser

import (
	"regexp"
	"strings"
)

// Policy number extraction runs two batteries over the uppercased query:
// a conservative battery of explicit formats and an enhanced battery that
// prioritizes multi-part formats with year segments. CombinedExtract unions
// both; IsValidPolicyNumber is the single source of truth for what survives.

// Conservative patterns - only clear policy number formats.
// ORDER MATTERS: multi-part formats with separators are tried first.
var conservativePatterns = []*regexp.Regexp{
	// SAC-AZ-AUTO-2025-456789 (five-part with mixed segment)
	regexp.MustCompile(`\b[A-Z]{2,5}[-_][A-Z]{2,4}[-_][A-Z0-9]+[-_]\d{4}[-_]\d{3,}\b`),
	// ESC-NY-CP-2025-334567
	regexp.MustCompile(`\b[A-Z]{2,4}[-_][A-Z]{2,4}[-_]\d{4}[-_]\d{3,}\b`),
	// SH-2025-445789, LP-985240156
	regexp.MustCompile(`\b[A-Z]{2,4}[-_]\d{4,}[-_]?\d{3,}\b`),
	// SAC-456789123
	regexp.MustCompile(`\b[A-Z]{2,4}[-_]\d{8,}\b`),
	// LP985240156 (letters directly followed by 8+ digits)
	regexp.MustCompile(`\b[A-Z]{2,}\d{8,}\b`),
	// PHI778899IND
	regexp.MustCompile(`\b[A-Z]{3}\d{6}[A-Z]{2,3}\b`),
	// A12BC345678
	regexp.MustCompile(`\b[A-Z]{1,3}\d{2,4}[A-Z]{1,4}\d{4,10}\b`),
	// 2025SAC456789
	regexp.MustCompile(`\b\d{4}[A-Z]{2,4}\d{4,8}\b`),
	// Long pure numeric (10-20 digits)
	regexp.MustCompile(`\b\d{10,20}\b`),
	// Specialized prefixes: POL-123456ABC, INS123456ABC, P12345678AB
	regexp.MustCompile(`\bPOL[-_]?[A-Z0-9]{6,}\b`),
	regexp.MustCompile(`\bINS[A-Z0-9]{6,}\b`),
	regexp.MustCompile(`\bP\d{8,}[A-Z]*\b`),
	// Generic multi-part with dot or dash separators: XX-YY-123456, XX.YY.ABCD123
	regexp.MustCompile(`\b[A-Z0-9]{2,4}[-_.][A-Z0-9]{2,4}[-_.][A-Z0-9]{4,}\b`),
}

// Contextual patterns capture the token following an explicit policy/claim
// keyword. Group 1 holds the candidate.
var conservativeContextual = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:policy|claim)\s*(?:number|no|#)?\s*:?\s*([A-Z0-9\-_.]{6,25})`),
	regexp.MustCompile(`(?i)policy\s+([A-Z0-9\-_.]{6,25})`),
	regexp.MustCompile(`(?i)number\s+([A-Z0-9\-_.]{8,25})`),
}

// Enhanced battery: priority formats tried first, wide-net fallbacks only
// when the priority pass finds nothing.
var enhancedPriorityPatterns = []*regexp.Regexp{
	// PHI-IL-IND-2025-778899 (five-part with state codes)
	regexp.MustCompile(`\b[A-Z]{2,4}[-_][A-Z]{2,4}[-_][A-Z]{2,4}[-_]\d{4}[-_]\d{4,}\b`),
	// SH-2025-445789 (three-part year format)
	regexp.MustCompile(`\b[A-Z]{2,4}[-_]\d{4}[-_]\d{4,}\b`),
	// SAC-AZ-AUTO-2025-456789
	regexp.MustCompile(`\b[A-Z]{3,4}[-_][A-Z]{2,4}[-_][A-Z0-9]+[-_]\d{4}[-_]\d{3,}\b`),
	// No-separator variant: SH2025445789
	regexp.MustCompile(`\b[A-Z]{2,4}\d{4}\d{4,}\b`),
}

var enhancedContextual = []*regexp.Regexp{
	regexp.MustCompile(`(?i)policy\s*(?:number|no|#)?\s*:?\s*([A-Z0-9\-_]{8,25})`),
	regexp.MustCompile(`(?i)number\s*:?\s*([A-Z0-9\-_]{8,25})`),
}

var enhancedFallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{2,}[-_][A-Z0-9\-_]+\b`),
	regexp.MustCompile(`\b[A-Z0-9]{8,}\b`),
	regexp.MustCompile(`\b[A-Z]{2}\d{4}\d{4,}\b`),
}

var (
	yearOnlyPattern = regexp.MustCompile(`^[0-9]{1,4}$`)
	digitPattern    = regexp.MustCompile(`\d`)
)

// Substrings that disqualify a candidate outright. URLs, hostnames and
// structural words survive the shape checks, so they are rejected by name.
var falsePositiveMarkers = []string{"HTTP", "HTTPS", "WWW", "EMAIL", "LOCALHOST", "DOCUMENT", "CONTENT"}

// IsValidPolicyNumber reports whether a candidate is plausibly a real
// policy number rather than a company name, a year or a URL fragment.
// Checks run in order; the first failing check rejects the candidate.
func IsValidPolicyNumber(candidate string) bool {
	candidate = strings.ToUpper(strings.TrimSpace(candidate))
	if len(candidate) < 8 {
		return false
	}

	for _, marker := range falsePositiveMarkers {
		if strings.Contains(candidate, marker) {
			return false
		}
	}

	hasLetters := false
	hasDigits := false
	onlyLetters := true
	onlyDigits := true
	uniqueDigits := make(map[byte]struct{})
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c >= 'A' && c <= 'Z':
			hasLetters = true
			onlyDigits = false
		case c >= '0' && c <= '9':
			hasDigits = true
			onlyLetters = false
			uniqueDigits[c] = struct{}{}
		default:
			onlyLetters = false
			onlyDigits = false
		}
	}

	// Plain words like LEMONADE or STATEFARM are company names, not numbers.
	if onlyLetters {
		return false
	}

	// Repeated-digit strings (1111111_1) are placeholders unless long.
	if onlyDigits && len(uniqueDigits) <= 2 && len(candidate) < 10 {
		return false
	}

	hasSeparators := strings.ContainsAny(candidate, "-_")
	isLongNumber := onlyDigits && len(candidate) >= 10

	return (hasLetters && hasDigits) || isLongNumber || hasSeparators
}

// ExtractPolicyNumbers runs the conservative battery. Every candidate must
// be at least 8 characters and pass validation before it is kept.
func ExtractPolicyNumbers(query string) []string {
	upper := strings.ToUpper(strings.TrimSpace(query))
	var found []string

	for _, pattern := range conservativePatterns {
		for _, match := range pattern.FindAllString(upper, -1) {
			candidate := strings.TrimSpace(match)
			if len(candidate) >= 8 && IsValidPolicyNumber(candidate) {
				found = append(found, candidate)
			}
		}
	}

	for _, pattern := range conservativeContextual {
		for _, match := range pattern.FindAllStringSubmatch(upper, -1) {
			candidate := strings.ToUpper(strings.TrimSpace(match[1]))
			if len(candidate) >= 8 && IsValidPolicyNumber(candidate) {
				found = append(found, candidate)
			}
		}
	}

	return dedupe(found)
}

// ExtractPolicyNumbersEnhanced catches multi-part formats the conservative
// battery misses. Candidates are shape-filtered but NOT validated here;
// CombinedExtract applies the validator at the end.
func ExtractPolicyNumbersEnhanced(query string) []string {
	upper := strings.ToUpper(strings.TrimSpace(query))
	var found []string

	for _, pattern := range enhancedPriorityPatterns {
		for _, match := range pattern.FindAllString(upper, -1) {
			candidate := strings.TrimSpace(match)
			if len(candidate) >= 6 && !yearOnlyPattern.MatchString(candidate) {
				found = append(found, candidate)
			}
		}
	}

	for _, pattern := range enhancedContextual {
		for _, match := range pattern.FindAllStringSubmatch(upper, -1) {
			candidate := strings.ToUpper(strings.TrimSpace(match[1]))
			if len(candidate) >= 6 && !yearOnlyPattern.MatchString(candidate) {
				found = append(found, candidate)
			}
		}
	}

	// Wide net only when the priority pass found nothing.
	if len(found) == 0 {
		for _, pattern := range enhancedFallbackPatterns {
			for _, match := range pattern.FindAllString(upper, -1) {
				candidate := strings.TrimSpace(match)
				if len(candidate) >= 8 &&
					candidate != "HTTP" && candidate != "HTTPS" && candidate != "LOCALHOST" {
					found = append(found, candidate)
				}
			}
		}
	}

	// Drop single words that are likely company names.
	var filtered []string
	for _, candidate := range dedupe(found) {
		if digitPattern.MatchString(candidate) ||
			strings.Contains(candidate, "-") ||
			strings.Contains(candidate, "_") ||
			len(candidate) >= 8 {
			filtered = append(filtered, candidate)
		}
	}

	return filtered
}

// CombinedExtract unions the enhanced and conservative batteries, enhanced
// results first, and keeps only candidates the validator accepts. A
// candidate whose normalized form sits inside a longer candidate is a
// partial match of the same identifier and is collapsed into it, so one
// policy number on the wire never counts as two.
func CombinedExtract(query string) []string {
	union := append(ExtractPolicyNumbersEnhanced(query), ExtractPolicyNumbers(query)...)

	var valid []string
	for _, candidate := range dedupe(union) {
		if IsValidPolicyNumber(candidate) {
			valid = append(valid, candidate)
		}
	}

	var out []string
	for i, candidate := range valid {
		norm := NormalizePolicyToken(candidate)
		contained := false
		for j, other := range valid {
			if i == j {
				continue
			}
			normOther := NormalizePolicyToken(other)
			if len(normOther) > len(norm) && strings.Contains(normOther, norm) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, candidate)
		}
	}
	return out
}

var normalizeSeparators = regexp.MustCompile(`[\s_\-.—–:/]`)

// NormalizePolicyToken strips whitespace and separator characters and
// uppercases, so formatting differences never hide a match.
func NormalizePolicyToken(s string) string {
	return normalizeSeparators.ReplaceAllString(strings.ToUpper(s), "")
}

// ContainsPolicyNumber reports whether the text mentions the policy number,
// comparing normalized forms. A short all-letter token repeated many times
// is treated as a common word, not a policy reference.
func ContainsPolicyNumber(text, policyNumber string) bool {
	normText := NormalizePolicyToken(text)
	normPolicy := NormalizePolicyToken(policyNumber)
	if normPolicy == "" || !strings.Contains(normText, normPolicy) {
		return false
	}

	if isAllLetters(normPolicy) && len(normPolicy) < 10 {
		if strings.Count(normText, normPolicy) > 5 {
			return false
		}
	}
	return true
}

func isAllLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
