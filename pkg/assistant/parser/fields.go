package parser

import (
	"regexp"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// PolicyFields holds the declarations-page facts recovered from retrieved
// chunks. Empty fields mean the documents never stated them.
type PolicyFields struct {
	HolderName   string `json:"holder_name"`
	PolicyNumber string `json:"policy_number"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Email        string `json:"email"`
	Contact      string `json:"contact"`
	PolicyType   string `json:"policy_type"`
}

// IsEmpty reports whether nothing was recovered.
func (f PolicyFields) IsEmpty() bool {
	return f == PolicyFields{}
}

var (
	holderNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)policy\s*holder[:\s]*([^\n,]+)`),
		regexp.MustCompile(`(?i)insured[:\s]*([^\n,]+)`),
		regexp.MustCompile(`(?i)named\s*insured[:\s]*([^\n,]+)`),
		regexp.MustCompile(`(?i)applicant[:\s]*([^\n,]+)`),
	}

	policyNumberFieldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)policy\s*number[:\s]*([A-Z0-9\-]+)`),
		regexp.MustCompile(`(?i)policy\s*no[:\s]*([A-Z0-9\-]+)`),
		regexp.MustCompile(`(?i)policy\s*#[:\s]*([A-Z0-9\-]+)`),
	}

	// Period patterns capture start and end; single-date patterns only start.
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)effective\s*date[:\s]*([0-9/\-]+)`),
		regexp.MustCompile(`(?i)start\s*date[:\s]*([0-9/\-]+)`),
		regexp.MustCompile(`(?i)policy\s*period[:\s]*([0-9/\-]+)\s*to\s*([0-9/\-]+)`),
		regexp.MustCompile(`(?i)from[:\s]*([0-9/\-]+)\s*to[:\s]*([0-9/\-]+)`),
	}

	emailPattern = regexp.MustCompile(`([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)

	contactPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)phone[:\s]*([0-9\-()\s]+)`),
		regexp.MustCompile(`(?i)contact[:\s]*([0-9\-()\s]+)`),
		regexp.MustCompile(`(\([0-9]{3}\)\s*[0-9]{3}-[0-9]{4})`),
		regexp.MustCompile(`([0-9]{3}-[0-9]{3}-[0-9]{4})`),
	}

	policyTypePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(commercial\s*property|business\s*property|homeowners|auto|liability|workers\s*compensation)`),
		regexp.MustCompile(`(?i)policy\s*type[:\s]*([^\n,]+)`),
	}
)

// ExtractPolicyFields scans the combined text of the retrieved chunks for
// holder name, policy number, coverage dates and contact details. For each
// field the first matching pattern wins.
func ExtractPolicyFields(chunks []store.Chunk) PolicyFields {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	fullText := strings.Join(texts, "\n")

	var fields PolicyFields

	for _, pattern := range holderNamePatterns {
		if m := pattern.FindStringSubmatch(fullText); m != nil {
			fields.HolderName = strings.TrimSpace(m[1])
			break
		}
	}

	for _, pattern := range policyNumberFieldPatterns {
		if m := pattern.FindStringSubmatch(fullText); m != nil {
			fields.PolicyNumber = strings.TrimSpace(m[1])
			break
		}
	}

	for _, pattern := range datePatterns {
		if m := pattern.FindStringSubmatch(fullText); m != nil {
			fields.StartDate = strings.TrimSpace(m[1])
			if len(m) > 2 {
				fields.EndDate = strings.TrimSpace(m[2])
			}
			break
		}
	}

	if m := emailPattern.FindStringSubmatch(fullText); m != nil {
		fields.Email = strings.TrimSpace(m[1])
	}

	for _, pattern := range contactPatterns {
		if m := pattern.FindStringSubmatch(fullText); m != nil {
			fields.Contact = strings.TrimSpace(m[1])
			break
		}
	}

	for _, pattern := range policyTypePatterns {
		if m := pattern.FindStringSubmatch(fullText); m != nil {
			fields.PolicyType = strings.TrimSpace(m[1])
			break
		}
	}

	return fields
}
