package parser

import "regexp"

var policyNamePatterns = []*regexp.Regexp{
	// Compound title-case names ("Mountain West"), optional product suffix
	regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)(?:\s+(?:Insurance|Policy|Commercial|Auto|Renters|Business))?`),
	// Single capitalized word directly in front of a product noun
	regexp.MustCompile(`\b([A-Z][a-z]{4,})(?:\s+(?:Insurance|Policy|Commercial|Auto|Renters|Business))`),
}

// ExtractPolicyNames pulls carrier or product names mentioned in a query,
// deduplicated in first-seen order.
func ExtractPolicyNames(query string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, pattern := range policyNamePatterns {
		for _, match := range pattern.FindAllStringSubmatch(query, -1) {
			name := match[1]
			if !seen[name] {
				names = append(names, name)
				seen[name] = true
			}
		}
	}
	return names
}
