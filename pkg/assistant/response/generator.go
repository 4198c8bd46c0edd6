package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/fnol"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/prompt"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

const (
	scenarioTemperature   = 0.2
	conversionTemperature = 0.1

	// maxConvertibleBullets bounds the prose rewrite to simple lists;
	// anything larger is treated as intentional structure and kept.
	maxConvertibleBullets = 5
)

// emptyAnswerFallback stands in when the model returns nothing usable.
const emptyAnswerFallback = "I couldn't find specific information about that in your policy documents. Could you provide more details?"

// noContextFallback feeds the prompt when retrieval produced no chunks.
const noContextFallback = "No relevant policy documents found for this query."

// claimPhrases gate the claim-number append: nothing is added when the
// model already spoke about a claim number on its own.
var claimPhrases = []string{"claim number", "claim #", "claim id"}

// unwantedSectionValues are heading labels too generic to cite in a
// source reference.
var unwantedSectionValues = []string{
	"document content", "general", "main document", "page", "content", "text", "chunk",
}

// Input carries everything one scenario prompt needs.
type Input struct {
	Query               string
	Intent              store.QueryType
	Stage               fnol.Stage
	DocumentContext     string
	ConversationContext string
}

// Generator renders the grounded answer for a turn: a scenario prompt
// picked by intent, low-temperature generation, and a bullet cleanup pass
// for conversational intents.
type Generator struct {
	llmProvider llm.LLMProvider
	registry    *prompt.Registry
	logger      *log.Logger
}

// NewGenerator creates a new response generator.
func NewGenerator(llmProvider llm.LLMProvider, registry *prompt.Registry, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		registry:    registry,
		logger:      logger,
	}
}

// Generate produces the answer text for a turn. A failed or empty model
// call degrades to a fixed fallback line and never propagates an error.
func (g *Generator) Generate(ctx context.Context, in Input) string {
	answer, err := g.llmProvider.Generate(ctx, g.buildScenarioPrompt(in), llm.WithTemperature(scenarioTemperature))
	if err != nil {
		g.logger.Printf("[ERROR] Response generation failed: %v", err)
		answer = ""
	}
	answer = strings.TrimSpace(answer)

	if in.Intent != store.QueryTypeComparison && in.Intent != store.QueryTypeSimilarSearch {
		answer = g.convertBullets(ctx, answer)
	}

	if answer == "" {
		return emptyAnswerFallback
	}
	return answer
}

// convertBullets rewrites small bulleted lists into flowing prose. Counts
// above the threshold keep the authored structure, and a failed rewrite
// keeps the original answer.
func (g *Generator) convertBullets(ctx context.Context, answer string) string {
	count := strings.Count(answer, "•") + strings.Count(answer, "\n- ") + strings.Count(answer, "\n* ")
	if count == 0 || count > maxConvertibleBullets {
		return answer
	}

	converted, err := g.llmProvider.Generate(ctx, buildConversionPrompt(answer), llm.WithTemperature(conversionTemperature))
	if err != nil {
		g.logger.Printf("[WARN] Bullet conversion failed, keeping original answer: %v", err)
		return answer
	}
	g.logger.Printf("[DEBUG] Converted %d bullet points to conversational text", count)
	return strings.TrimSpace(converted)
}

// buildScenarioPrompt selects the scenario block for the resolved intent.
// Every prompt opens with the shared system guidance so the model keeps
// the same grounding rules across scenarios.
func (g *Generator) buildScenarioPrompt(in Input) string {
	var b strings.Builder

	b.WriteString(g.registry.Get(prompt.KeySystemGuidance, nil))
	b.WriteString("\n\n")

	switch in.Intent {
	case store.QueryTypeFnol:
		b.WriteString("SCENARIO: First Notice of Loss (FNOL) - Claim Reporting\n")
		fmt.Fprintf(&b, "Current Stage: %s\n\n", in.Stage)
		fmt.Fprintf(&b, "User's message: %q\n", in.Query)
		fmt.Fprintf(&b, "Previous conversation: %s\n\n", in.ConversationContext)
		b.WriteString("YOUR TASK:\n")
		b.WriteString("- Acknowledge their loss naturally and empathetically\n")
		b.WriteString("- Guide them conversationally through the claim process\n")
		b.WriteString("- Collect required information step by step\n")
		b.WriteString("- Validate loss type matches their policy\n")
		b.WriteString("- Confirm details before issuing claim number\n\n")
		fmt.Fprintf(&b, "Context from documents: %s\n\n", in.DocumentContext)
		b.WriteString("Respond conversationally without bullet points.")

	case store.QueryTypePolicyInfo:
		b.WriteString("SCENARIO: Policy Information Request\n\n")
		fmt.Fprintf(&b, "User's question: %q\n", in.Query)
		fmt.Fprintf(&b, "Policy context: %s\n\n", in.ConversationContext)
		b.WriteString("YOUR TASK:\n")
		b.WriteString("- If no policy number: Ask for it conversationally\n")
		b.WriteString("- After getting policy number: Provide high-level summary (name, number, product, dates)\n")
		b.WriteString("- Follow up: \"What else would you like to know?\"\n")
		b.WriteString("- Answer specific questions naturally in flowing sentences\n\n")
		fmt.Fprintf(&b, "Context from documents: %s\n\n", in.DocumentContext)
		b.WriteString("Respond conversationally. NO bullet points unless it's a complex table scenario.")

	case store.QueryTypeComparison:
		b.WriteString("SCENARIO: Policy Comparison (Table Required)\n\n")
		fmt.Fprintf(&b, "User's request: %q\n\n", in.Query)
		b.WriteString("YOUR TASK:\n")
		b.WriteString("- Use the markdown table format for side-by-side comparison\n")
		b.WriteString("- Include only the most relevant coverage details\n")
		b.WriteString("- Keep it organized and scannable\n\n")
		fmt.Fprintf(&b, "Context from documents: %s\n\n", in.DocumentContext)
		b.WriteString("Use the table format from SCENARIO C guidelines.")

	default:
		fmt.Fprintf(&b, "User's question: %q\n", in.Query)
		fmt.Fprintf(&b, "Context: %s\n\n", in.DocumentContext)
		b.WriteString("Respond conversationally in natural flowing sentences. No bullet points.")
	}

	return b.String()
}

func buildConversionPrompt(answer string) string {
	var b strings.Builder

	b.WriteString("Convert this response to natural conversational flowing text without bullet points.\n")
	b.WriteString("Keep the same information but write it as flowing sentences.\n\n")
	b.WriteString(answer)
	b.WriteString("\n\nOutput only the conversational version.")

	return b.String()
}

// BuildContext assembles the document grounding block of the prompt:
// source-referenced chunk texts deduplicated by document, section and
// page, the policy numbers in scope, any declarations-page fields, and
// the conversation so far.
func BuildContext(chunks []store.Chunk, policyNumbers []string, fields parser.PolicyFields, conversationContext string) string {
	var b strings.Builder

	if len(chunks) > 0 {
		var parts []string
		seen := make(map[string]bool)
		for _, chunk := range chunks {
			sectionInfo := chunk.Section
			if isUnwantedSection(sectionInfo) {
				sectionInfo = ""
			}
			if sectionInfo == "" {
				sectionInfo = "Policy Information"
			}

			key := fmt.Sprintf("%s:%s:%s", chunk.DocumentName, sectionInfo, chunk.Page)
			if seen[key] {
				continue
			}
			seen[key] = true

			parts = append(parts, fmt.Sprintf(
				"Source Reference: [%s : %s : Page %s]\nContent:\n%s",
				chunk.DocumentName, sectionInfo, chunk.Page, chunk.Text,
			))
		}
		b.WriteString(strings.Join(parts, "\n\n"))

		if len(policyNumbers) > 0 {
			fmt.Fprintf(&b, "\n\nPOLICY NUMBERS IN SCOPE: %s", strings.Join(policyNumbers, ", "))
		}
	} else {
		b.WriteString(noContextFallback)
	}

	if !fields.IsEmpty() {
		b.WriteString("\n\nPolicy Information Found:\n")
		fmt.Fprintf(&b, "- Policy Holder: %s\n", orNotSpecified(fields.HolderName))
		fmt.Fprintf(&b, "- Policy Number: %s\n", orNotSpecified(fields.PolicyNumber))
		fmt.Fprintf(&b, "- Coverage Period: %s to %s", orNotSpecified(fields.StartDate), orNotSpecified(fields.EndDate))
	}

	if conversationContext != "" {
		fmt.Fprintf(&b, "\n\nPrevious conversation context:\n%s", conversationContext)
	}

	return b.String()
}

// WithClaimNumber appends the issued claim number to the answer unless
// the answer already mentions one.
func WithClaimNumber(answer, claimNumber string) string {
	answerLower := strings.ToLower(answer)
	for _, phrase := range claimPhrases {
		if strings.Contains(answerLower, phrase) {
			return answer
		}
	}
	return answer + fmt.Sprintf("\n\nYour claim number is **%s**. We'll be in touch within 24-48 hours to proceed with your claim.", claimNumber)
}

func isUnwantedSection(section string) bool {
	sectionLower := strings.ToLower(section)
	for _, value := range unwantedSectionValues {
		if sectionLower == value {
			return true
		}
	}
	return false
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not specified"
	}
	return v
}
