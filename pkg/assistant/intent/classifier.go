package intent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// Format preference constants
const (
	FormatText               = "text"
	FormatStructured         = "structured"
	FormatClarification      = "clarification"
	FormatNeedsClarification = "needs_clarification"
)

// Analysis is the resolved reading of one user query.
type Analysis struct {
	PrimaryIntent         store.QueryType   `json:"primary_intent"`
	AllIntents            []store.QueryType `json:"all_intents"`
	FormatPreference      string            `json:"format_preference"`
	NeedsClarification    bool              `json:"needs_clarification"`
	NeedsPolicyholderInfo bool              `json:"needs_policyholder_info"`
	NeedsFollowUp         bool              `json:"needs_follow_up"`
}

// Rule binds an intent label to the patterns that signal it.
type Rule struct {
	Intent   store.QueryType
	Patterns []*regexp.Regexp
}

// rules is evaluated in declaration order against the lower-cased query.
// Every rule with at least one matching pattern contributes its intent, so
// a single query can carry several intents at once.
var rules = []Rule{
	{
		Intent: store.QueryTypePersonalClaim,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`my\s+(floor|roof|car|house|apartment|business|property)`),
			regexp.MustCompile(`i\s+have\s+(water\s+damage|fire|theft|accident)`),
			regexp.MustCompile(`there\s+is\s+(damage|leak|fire|break)`),
			regexp.MustCompile(`something\s+happened\s+to\s+my`),
			regexp.MustCompile(`(water|fire|storm|wind)\s+damage\s+(to\s+)?my`),
			regexp.MustCompile(`my\s+.+\s+is\s+(leaking|damaged|broken|flooded)`),
			regexp.MustCompile(`i\s+need\s+to\s+(file|submit)\s+a\s+claim`),
			regexp.MustCompile(`(car|vehicle)\s+(broke\s+down|breakdown)`),
			regexp.MustCompile(`it\s+was\s+due\s+to\s+(a\s+)?(crash|accident|collision)`),
			regexp.MustCompile(`but\s+it\s+was\s+(due\s+to|because\s+of|from)\s+(a\s+)?(crash|accident|collision)`),
			regexp.MustCompile(`(crashed|accident\s+happened|collision\s+occurred)`),
			regexp.MustCompile(`due\s+to\s+(crash|accident|collision)`),
		},
	},
	{
		Intent: store.QueryTypeOpenEnded,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`show me all`),
			regexp.MustCompile(`list all`),
			regexp.MustCompile(`give me all`),
			regexp.MustCompile(`what do you have`),
			regexp.MustCompile(`show all documents`),
			regexp.MustCompile(`all policies`),
			regexp.MustCompile(`everything about`),
		},
	},
	{
		Intent: store.QueryTypeFnol,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`file.*claim`),
			regexp.MustCompile(`report.*loss`),
			regexp.MustCompile(`start.*claim`),
			regexp.MustCompile(`submit.*claim`),
			regexp.MustCompile(`claim.*number`),
			regexp.MustCompile(`register.*loss`),
			regexp.MustCompile(`incident.*report`),
		},
	},
	{
		Intent: store.QueryTypePolicyInfo,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`my.*policy`),
			regexp.MustCompile(`policy.*information`),
			regexp.MustCompile(`policy.*details`),
			regexp.MustCompile(`coverage.*summary`),
			regexp.MustCompile(`what.*covered.*my`),
			regexp.MustCompile(`policy.*number`),
		},
	},
	{
		Intent: store.QueryTypePolicySummary,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`what is.*covered`),
			regexp.MustCompile(`policy summary`),
			regexp.MustCompile(`coverage summary`),
			regexp.MustCompile(`what does.*policy cover`),
			regexp.MustCompile(`policy details`),
			regexp.MustCompile(`tell me about.*policy`),
			regexp.MustCompile(`pull up.*policy`),
			regexp.MustCompile(`is covered under`),
			regexp.MustCompile(`show me.*policy`),
		},
	},
	{
		Intent: store.QueryTypeSimilarSearch,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`pull up.*similar`),
			regexp.MustCompile(`find.*similar`),
			regexp.MustCompile(`show.*similar`),
			regexp.MustCompile(`other.*like`),
			regexp.MustCompile(`comparable.*policy`),
			regexp.MustCompile(`alternatives`),
			regexp.MustCompile(`similar.*coverage`),
			regexp.MustCompile(`similar.*policy`),
			regexp.MustCompile(`similar.*to`),
		},
	},
	{
		Intent: store.QueryTypeSpecificPerson,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`what is.*covered under`),
			regexp.MustCompile(`policy holder`),
			regexp.MustCompile(`insured person`),
			regexp.MustCompile(`coverage for`),
			regexp.MustCompile(`policy for`),
		},
	},
	{
		Intent: store.QueryTypeComparison,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`compare`),
			regexp.MustCompile(`versus`),
			regexp.MustCompile(`vs`),
			regexp.MustCompile(`difference between`),
			regexp.MustCompile(`which is better`),
			regexp.MustCompile(`similar policies`),
			regexp.MustCompile(`alternatives`),
			regexp.MustCompile(`most similar`),
			regexp.MustCompile(`similar.*in.*terms`),
			regexp.MustCompile(`renewal.*similar`),
			regexp.MustCompile(`sell.*renewal`),
		},
	},
	{
		Intent: store.QueryTypeCoverageCheck,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`is.*covered`),
			regexp.MustCompile(`does.*cover`),
			regexp.MustCompile(`coverage for`),
			regexp.MustCompile(`covered under`),
			regexp.MustCompile(`includes`),
			regexp.MustCompile(`excludes`),
		},
	},
	{
		Intent: store.QueryTypeLimitsDeductibles,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`what are.*limits`),
			regexp.MustCompile(`deductible`),
			regexp.MustCompile(`maximum coverage`),
			regexp.MustCompile(`threshold`),
			regexp.MustCompile(`how much.*covered`),
			regexp.MustCompile(`will it cover.*\d+`),
			regexp.MustCompile(`claim exceeds.*coverage`),
		},
	},
}

// fallbackLabels is the closed label set the model may answer with when no
// pattern matched.
var fallbackLabels = []string{
	"policy_summary", "coverage_check", "limit_conflict", "comparison",
	"personal_claim", "open_ended", "general",
}

// Classifier maps a raw query to an Analysis. Pattern rules resolve the
// common cases without any model call; the model is consulted only when
// every rule misses.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewClassifier creates a new intent classifier.
func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify analyzes one user query. A query matching any rule never reaches
// the model.
func (c *Classifier) Classify(ctx context.Context, query string) *Analysis {
	queryLower := strings.ToLower(query)

	var detected []store.QueryType
	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(queryLower) {
				detected = append(detected, rule.Intent)
				break
			}
		}
	}

	if len(detected) == 0 {
		c.logger.Printf("[INTENT] No pattern match for %q, using model fallback", query)
		detected = append(detected, c.fallbackIntent(ctx, query))
	}

	primary := resolvePrimary(detected)

	analysis := &Analysis{
		PrimaryIntent:         primary,
		AllIntents:            detected,
		FormatPreference:      formatPreference(primary),
		NeedsClarification:    primary == store.QueryTypeOpenEnded && len(detected) == 1,
		NeedsPolicyholderInfo: primary == store.QueryTypePersonalClaim,
		NeedsFollowUp:         primary == store.QueryTypePolicySummary || primary == store.QueryTypeSpecificPerson,
	}

	c.logger.Printf("[INTENT] Classified as %s (all: %v, format: %s)",
		analysis.PrimaryIntent, analysis.AllIntents, analysis.FormatPreference)

	return analysis
}

// resolvePrimary collapses the detected intents into one primary intent.
// Loss reporting outranks policy lookups, which outrank comparisons.
func resolvePrimary(detected []store.QueryType) store.QueryType {
	switch {
	case hasAny(detected, store.QueryTypePersonalClaim, store.QueryTypeFnol):
		return store.QueryTypeFnol
	case hasAny(detected, store.QueryTypePolicyInfo, store.QueryTypePolicySummary, store.QueryTypeSpecificPerson):
		return store.QueryTypePolicyInfo
	case hasAny(detected, store.QueryTypeComparison, store.QueryTypeSimilarSearch):
		return store.QueryTypeComparison
	case len(detected) > 0:
		return detected[0]
	}
	return store.QueryTypeGeneral
}

func formatPreference(primary store.QueryType) string {
	switch primary {
	case store.QueryTypePersonalClaim:
		return FormatClarification
	case store.QueryTypeComparison, store.QueryTypePolicySummary,
		store.QueryTypeSpecificPerson, store.QueryTypeLimitConflict:
		return FormatNeedsClarification
	case store.QueryTypeCoverageCheck, store.QueryTypeLimitsDeductibles:
		return FormatStructured
	}
	return FormatText
}

func hasAny(detected []store.QueryType, wanted ...store.QueryType) bool {
	for _, d := range detected {
		for _, w := range wanted {
			if d == w {
				return true
			}
		}
	}
	return false
}

// fallbackIntent asks the model for a single label out of the closed set.
// Any failure resolves to general.
func (c *Classifier) fallbackIntent(ctx context.Context, query string) store.QueryType {
	prompt := buildFallbackPrompt(query)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[ERROR] Intent fallback failed: %v", err)
		return store.QueryTypeGeneral
	}

	label := strings.TrimSpace(response)
	label = strings.ReplaceAll(label, "'", "")
	label = strings.ReplaceAll(label, "\"", "")
	label = strings.ToLower(label)
	if label == "" {
		return store.QueryTypeGeneral
	}

	c.logger.Printf("[INTENT] Model fallback resolved %q as %s", query, label)
	return store.QueryType(label)
}

func buildFallbackPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an expert at classifying insurance-related user queries.\n")
	prompt.WriteString("Classify this query into one of:\n")
	prompt.WriteString(fmt.Sprintf("['%s']\n\n", strings.Join(fallbackLabels, "', '")))

	prompt.WriteString("Examples:\n")
	prompt.WriteString("- \"pull up the lemonade renters policy\" -> policy_summary\n")
	prompt.WriteString("- \"my policy covers 20k but damage is 50k\" -> limit_conflict\n")
	prompt.WriteString("- \"is flood covered\" -> coverage_check\n")
	prompt.WriteString("- \"my car was in an accident\" -> personal_claim\n")
	prompt.WriteString("- \"what can you do?\" -> open_ended\n")
	prompt.WriteString("- \"that's interesting\" -> general\n\n")

	prompt.WriteString(fmt.Sprintf("Query: %q\n", query))
	prompt.WriteString("Intent:")

	return prompt.String()
}
