package intent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// Requirement states how many policy numbers an intent needs before
// retrieval may proceed, and what to ask when they are missing. An empty
// AskMessage on a required intent means the message is generated from the
// raw query at gate time.
type Requirement struct {
	MinPolicies int
	MaxPolicies int
	Required    bool
	AskMessage  string
}

type requirementRule struct {
	intents     []store.QueryType
	requirement Requirement
}

// requirementRules is evaluated in order, first matching rule wins.
// Intents with no rule fall back to defaultRequirement: one policy number,
// mandatory.
var requirementRules = []requirementRule{
	{
		intents:     []store.QueryType{store.QueryTypeFnol},
		requirement: Requirement{MinPolicies: 1, MaxPolicies: 1, Required: true},
	},
	{
		intents: []store.QueryType{
			store.QueryTypePolicyInfo, store.QueryTypePolicySummary, store.QueryTypeSpecificPerson,
		},
		requirement: Requirement{
			MinPolicies: 1,
			MaxPolicies: 1,
			Required:    true,
			AskMessage:  "What's your policy number? You can find it on your policy documents.",
		},
	},
	{
		intents: []store.QueryType{store.QueryTypeComparison, store.QueryTypeSimilarSearch},
		requirement: Requirement{
			MinPolicies: 2,
			MaxPolicies: 3,
			Required:    true,
			AskMessage:  "To compare policies, I'll need at least 2 policy numbers.",
		},
	},
	{
		intents: []store.QueryType{
			store.QueryTypeOpenEnded, store.QueryTypeGeneral, store.QueryTypeGreeting,
		},
		requirement: Requirement{},
	},
}

var defaultRequirement = Requirement{MinPolicies: 1, MaxPolicies: 1, Required: true}

// lossKeywords signal the user is describing damage or loss rather than
// asking a hypothetical question. They select the empathetic ask variant.
var lossKeywords = []string{
	"leak", "burst", "damage", "fire", "accident", "stolen", "injury", "broken", "loss",
}

const fallbackAskMessage = "I want to help, but before I can look up coverage details, " +
	"I'll need your policy number. Providing the policy number is mandatory. " +
	"Please share it from your declarations page or policy document."

// Policy resolves the policy-number requirement per intent and produces the
// ask message the gate returns when numbers are missing.
type Policy struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewPolicy creates a new requirement policy.
func NewPolicy(llmProvider llm.LLMProvider, logger *log.Logger) *Policy {
	return &Policy{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Requirement returns the requirement for an intent. No model call is made
// here; AskMessage fills a missing message on demand.
func (p *Policy) Requirement(intent store.QueryType) Requirement {
	for _, rule := range requirementRules {
		for _, ruleIntent := range rule.intents {
			if ruleIntent == intent {
				return rule.requirement
			}
		}
	}
	return defaultRequirement
}

// AskMessage returns the user-facing request for a policy number. Fixed
// messages pass through untouched. Required intents without one get a
// generated message whose tone follows whether the query describes a loss;
// the fixed neutral fallback still asserts the number is mandatory.
func (p *Policy) AskMessage(ctx context.Context, req Requirement, rawQuery string) string {
	if !req.Required || req.AskMessage != "" {
		return req.AskMessage
	}

	prompt := buildAskPrompt(rawQuery, isLossEvent(rawQuery))

	response, err := p.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		p.logger.Printf("[WARN] Ask message generation failed: %v", err)
		return fallbackAskMessage
	}

	message := strings.TrimSpace(response)
	if message == "" {
		return fallbackAskMessage
	}
	return message
}

func isLossEvent(query string) bool {
	queryLower := strings.ToLower(query)
	for _, keyword := range lossKeywords {
		if strings.Contains(queryLower, keyword) {
			return true
		}
	}
	return false
}

func buildAskPrompt(query string, lossEvent bool) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("The user said: '%s'.\n\n", query))

	if lossEvent {
		prompt.WriteString("You are an empathetic insurance claims assistant.\n")
		prompt.WriteString("1) Acknowledge their situation naturally (e.g., 'I'm sorry to hear about the water damage').\n")
		prompt.WriteString("2) Make it clear that the policy number is REQUIRED before you can check any coverage or details.\n")
		prompt.WriteString("3) Politely ask them to provide their policy number from their declarations page or policy document.\n")
		prompt.WriteString("Be supportive, concise, and professional.")
	} else {
		prompt.WriteString("You are a professional insurance assistant.\n")
		prompt.WriteString("1) Do not add empathy since this is not a loss/damage situation.\n")
		prompt.WriteString("2) Clearly state that the policy number is REQUIRED before you can check coverage or details.\n")
		prompt.WriteString("3) Politely ask them to provide their policy number from their declarations page or policy document.\n")
		prompt.WriteString("Keep tone polite and concise.")
	}

	return prompt.String()
}
