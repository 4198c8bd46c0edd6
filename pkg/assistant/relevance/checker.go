package relevance

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// Verdict classifies a query's relation to the insurance domain.
type Verdict string

const (
	VerdictGreeting     Verdict = "greeting"
	VerdictInsurance    Verdict = "insurance"
	VerdictNonInsurance Verdict = "non_insurance"
)

// greetingWordLimit keeps the fast path to genuine small talk; longer
// sentences that happen to contain "hello" still flow through the pipeline.
const greetingWordLimit = 5

const (
	maxChunksIn     = 20
	maxChunksOut    = 15
	minChunkTextLen = 30
)

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`),
	regexp.MustCompile(`\b(how are you|what can you do|help me|assist me)\b`),
	regexp.MustCompile(`\b(thanks|thank you|bye|goodbye)\b`),
}

var insuranceKeywords = []string{
	"insurance", "policy", "coverage", "claim", "deductible", "premium", "liability",
	"fire", "flood", "damage", "theft", "accident", "property", "business", "personal",
	"covered", "excluded", "limit", "repair", "replacement", "loss", "renewal", "similar",
}

// IsGreeting reports whether the query is small talk: at most five words
// with a greeting, courtesy or farewell pattern hit.
func IsGreeting(query string) bool {
	if len(strings.Fields(query)) > greetingWordLimit {
		return false
	}
	queryLower := strings.ToLower(query)
	for _, pattern := range greetingPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}
	return false
}

// Checker decides whether a query belongs to the insurance domain and
// trims retrieved chunks to the ones worth prompting with.
type Checker struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewChecker creates a new relevance checker.
func NewChecker(llmProvider llm.LLMProvider, logger *log.Logger) *Checker {
	return &Checker{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Check classifies the query and filters the chunks. The keyword list
// settles most queries without a model call; the model is consulted only
// when every keyword misses, and a failed model call counts as insurance.
func (c *Checker) Check(ctx context.Context, query string, chunks []store.Chunk, conversationContext string) (Verdict, []store.Chunk) {
	if IsGreeting(query) {
		return VerdictGreeting, nil
	}

	queryLower := strings.ToLower(query)
	related := false
	for _, keyword := range insuranceKeywords {
		if strings.Contains(queryLower, keyword) {
			related = true
			break
		}
	}

	if !related {
		response, err := c.llmProvider.Generate(ctx, buildRelevancePrompt(query, conversationContext))
		if err != nil {
			c.logger.Printf("[WARN] Relevance check failed, assuming insurance: %v", err)
			related = true
		} else {
			related = strings.Contains(strings.ToUpper(response), "YES")
		}
	}

	if !related {
		return VerdictNonInsurance, nil
	}

	return VerdictInsurance, filterChunks(chunks)
}

// filterChunks trusts the vector search and applies only minimal quality
// bounds: the first 20 candidates, text longer than 30 characters, at most
// 15 survivors.
func filterChunks(chunks []store.Chunk) []store.Chunk {
	if len(chunks) == 0 {
		return nil
	}

	limit := len(chunks)
	if limit > maxChunksIn {
		limit = maxChunksIn
	}

	var filtered []store.Chunk
	for _, chunk := range chunks[:limit] {
		if len(chunk.Text) > minChunkTextLen {
			filtered = append(filtered, chunk)
		}
	}

	if len(filtered) > maxChunksOut {
		filtered = filtered[:maxChunksOut]
	}
	return filtered
}

func buildRelevancePrompt(query, conversationContext string) string {
	var prompt strings.Builder

	prompt.WriteString("Analyze if this query is related to insurance, claims, policy coverage, or situations that might need insurance coverage.\n")
	prompt.WriteString(fmt.Sprintf("Query: %q\n", query))
	prompt.WriteString(fmt.Sprintf("Previous conversation context: %s\n", conversationContext))
	prompt.WriteString("Respond with only \"YES\" or \"NO\".")

	return prompt.String()
}
