package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// Source links a document name to its citation number in the reference list.
type Source struct {
	Name string
	Ref  int
}

// Answers that ask the user for something carry no references.
var skipPhrases = []string{
	"could you please", "i need", "provide your", "to check your specific",
	"not specified in the provided documents",
}

var (
	pagesPattern      = regexp.MustCompile(`Pages? ([0-9, -]+)`)
	citedAfterPattern = regexp.MustCompile(`^\s*\[\d+\]`)
)

// Build generates the numbered reference list for an answer. Only documents
// that actually appear inside a markdown table row of the answer are
// referenced; pages of the same document fold into one line. The returned
// list keeps the leading "-" sentinel of the wire format, and the sources
// carry the name-to-number assignment for AddCitations.
func Build(chunks []store.Chunk, answer string) ([]string, []Source) {
	if len(chunks) == 0 || shouldSkip(answer) {
		return nil, nil
	}

	var references []string
	var sources []Source

	for _, chunk := range chunks {
		docName := chunk.DocumentName
		if docName == "" {
			docName = "Unknown Document"
		}
		page := chunk.Page
		if page == "" {
			page = "unknown"
		}

		if !IsDocumentMentioned(docName, answer) {
			continue
		}

		if idx := indexOfReference(references, docName); idx >= 0 {
			if page != "unknown" && !strings.Contains(references[idx], page) {
				references[idx] = mergePage(references[idx], page)
			}
			continue
		}

		pageStr := "Document Content"
		if page != "unknown" {
			pageStr = fmt.Sprintf("Page %s", page)
		}
		sources = append(sources, Source{Name: docName, Ref: len(sources) + 1})
		references = append(references, fmt.Sprintf("[%d] %s : %s", len(sources), docName, pageStr))
	}

	if len(references) == 0 {
		return nil, nil
	}
	return append([]string{"-"}, references...), sources
}

// IsDocumentMentioned reports whether the document name appears inside a
// markdown table row such as "| Mountain West Commercial Policy | ... |".
// Prose mentions do not count.
func IsDocumentMentioned(docName, answer string) bool {
	if docName == "" || answer == "" {
		return false
	}
	pattern := regexp.MustCompile(`(?i)\|\s*[^|]*` + regexp.QuoteMeta(docName) + `[^|]*\s*\|`)
	return pattern.MatchString(answer)
}

// AddCitations inserts [n] markers next to each source: at its table cell
// when one matches, otherwise after the first uncited occurrence of the
// document's leading word.
func AddCitations(answer string, sources []Source) string {
	if len(sources) == 0 {
		return answer
	}

	modified := answer
	for _, source := range sources {
		escaped := regexp.QuoteMeta(source.Name)

		cellPattern := regexp.MustCompile(`(?i)(\|\s*)(` + escaped + `)(\s*\|)`)
		if loc := cellPattern.FindStringSubmatchIndex(modified); loc != nil {
			modified = expandFirst(cellPattern, modified, loc, fmt.Sprintf("${1}${2} [%d]${3}", source.Ref))
			continue
		}

		prefixPattern := regexp.MustCompile(`(?i)(` + escaped + `)(\s*\|)`)
		if loc := prefixPattern.FindStringSubmatchIndex(modified); loc != nil {
			modified = expandFirst(prefixPattern, modified, loc, fmt.Sprintf("${1} [%d]${2}", source.Ref))
			continue
		}

		modified = citeFirstWord(modified, source)
	}
	return modified
}

func shouldSkip(answer string) bool {
	if strings.HasSuffix(answer, "?") {
		return true
	}
	lower := strings.ToLower(answer)
	for _, phrase := range skipPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func indexOfReference(references []string, docName string) int {
	for i, ref := range references {
		if strings.Contains(ref, docName) {
			return i
		}
	}
	return -1
}

// mergePage folds an additional page into an existing reference line:
// "Page 3" becomes "Pages 3, 7", then "Pages 3, 7, 9".
func mergePage(ref, page string) string {
	m := pagesPattern.FindStringSubmatch(ref)
	if m == nil {
		return ref
	}

	current := m[1]
	merged := current + ", " + page
	if strings.HasPrefix(m[0], "Pages") {
		return strings.Replace(ref, current, merged, 1)
	}
	return strings.Replace(ref, "Page "+current, "Pages "+merged, 1)
}

// expandFirst replaces only the first match, which regexp.ReplaceAll cannot do.
func expandFirst(pattern *regexp.Regexp, s string, loc []int, template string) string {
	expanded := pattern.ExpandString(nil, template, s, loc)
	return s[:loc[0]] + string(expanded) + s[loc[1]:]
}

func citeFirstWord(answer string, source Source) string {
	fields := strings.Fields(source.Name)
	if len(fields) == 0 {
		return answer
	}

	wordPattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(fields[0]) + `\b`)
	for _, loc := range wordPattern.FindAllStringIndex(answer, -1) {
		if citedAfterPattern.MatchString(answer[loc[1]:]) {
			continue
		}
		return answer[:loc[1]] + fmt.Sprintf(" [%d]", source.Ref) + answer[loc[1]:]
	}
	return answer
}
