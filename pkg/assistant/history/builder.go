package history

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/prompt"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// contextTurns bounds how much history feeds prompts and incident scans.
const contextTurns = 8

// answerExcerptLen bounds assistant lines quoted into the context.
const answerExcerptLen = 400

// rewriteWordLimit separates short follow-ups, which get rewritten, from
// queries already specific enough to search with.
const rewriteWordLimit = 10

// incidentPatterns recognize obvious past-tense loss descriptions when the
// model call is unavailable.
var incidentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bmy\s+\w+\s+(broke|crashed|damaged|failed|stopped)`),
	regexp.MustCompile(`\b(accident|collision|theft|fire|flood|leak|burst)\b`),
	regexp.MustCompile(`\bthere\s+(is|was)\s+damage\b`),
}

// tablePrefixMarkers identify table answers that carried policy numbers.
var tablePrefixMarkers = []string{"SAC-", "ESC-", "PHI-", "LP-"}

// Builder assembles per-turn conversation context and recovers state the
// user left implicit: unresolved incident descriptions, follow-up flags,
// and policy numbers already seen earlier in the session.
type Builder struct {
	llmProvider llm.LLMProvider
	registry    *prompt.Registry
	logger      *log.Logger
}

// NewBuilder creates a new history builder.
func NewBuilder(llmProvider llm.LLMProvider, registry *prompt.Registry, logger *log.Logger) *Builder {
	return &Builder{
		llmProvider: llmProvider,
		registry:    registry,
		logger:      logger,
	}
}

// Context renders the most recent turns as alternating user/assistant
// lines. Assistant lines are quoted only when they look policy-relevant,
// meaning the excerpt mentions a policy or carries a table delimiter. The
// second return reports whether the previous turn asked the user for more
// details, which marks the current turn a follow-up.
func (b *Builder) Context(session *store.Session) (string, bool) {
	if session == nil || len(session.Turns) == 0 {
		return "", false
	}

	recent := session.RecentTurns(contextTurns)
	isFollowUp := recent[len(recent)-1].QueryType == store.QueryTypeNeedsMoreContext

	var parts []string
	for _, turn := range recent {
		parts = append(parts, "User previously asked: "+turn.Query)

		excerpt := truncateRunes(turn.Answer, answerExcerptLen)
		if strings.Contains(strings.ToLower(excerpt), "policy") || strings.Contains(excerpt, "|") {
			parts = append(parts, "Assistant previously provided: "+excerpt)
		}
	}

	return strings.Join(parts, "\n"), isFollowUp
}

// DetectIncident scans recent turns for an unresolved loss description: a
// turn where the assistant paused to ask for a policy number. One yes/no
// model call decides whether that turn described a real event; the pattern
// whitelist stands in only when the call fails.
func (b *Builder) DetectIncident(ctx context.Context, session *store.Session) string {
	if session == nil || len(session.Turns) == 0 {
		return ""
	}

	for _, turn := range session.RecentTurns(contextTurns) {
		if turn.QueryType != store.QueryTypePolicyRequired {
			continue
		}

		query := strings.TrimSpace(turn.Query)
		if len(query) < 5 {
			continue
		}

		answer, err := b.llmProvider.Generate(ctx, buildIncidentPrompt(query),
			llm.WithTemperature(0.0), llm.WithMaxTokens(10))
		if err != nil {
			b.logger.Printf("[WARN] Incident detection failed, using patterns: %v", err)
			if matchesIncidentPattern(query) {
				return query
			}
			continue
		}

		if strings.Contains(strings.ToUpper(answer), "YES") {
			b.logger.Printf("[STATE] Incident recovered from history: %q", query)
			return query
		}
	}

	return ""
}

// ContextualQuery rewrites a short follow-up into a self-contained query.
// Long queries and context-free turns pass through unchanged, as does the
// original query on any model failure.
func (b *Builder) ContextualQuery(ctx context.Context, query, conversationContext string) string {
	if conversationContext == "" || len(strings.Fields(query)) > rewriteWordLimit {
		return query
	}

	promptText := b.registry.Get(prompt.KeyContextualQueryRewriter, map[string]string{
		"conversation_context": conversationContext,
		"query":                query,
	})

	response, err := b.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.0))
	if err != nil {
		b.logger.Printf("[WARN] Query rewrite failed: %v", err)
		return query
	}

	rewritten := strings.ReplaceAll(strings.TrimSpace(response), "\"", "")
	if rewritten == "" {
		return query
	}

	b.logger.Printf("[STATE] Rewrote %q as %q", query, rewritten)
	return rewritten
}

// FallbackPolicyNumbers scans the whole session when extraction from the
// current query came up empty: prior user queries, plus prior table
// answers that carried a known policy prefix.
func (b *Builder) FallbackPolicyNumbers(session *store.Session) []string {
	if session == nil {
		return nil
	}

	var found []string
	for _, turn := range session.Turns {
		found = append(found, parser.CombinedExtract(turn.Query)...)

		if strings.Contains(turn.Answer, "|") &&
			strings.Contains(turn.Answer, "Policy") &&
			containsAnyMarker(turn.Answer) {
			found = append(found, parser.CombinedExtract(turn.Answer)...)
		}
	}

	found = dedupe(found)
	if len(found) > 0 {
		b.logger.Printf("[STATE] Recovered %d policy numbers from history: %v", len(found), found)
	}
	return found
}

func buildIncidentPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Analyze the user's query to determine if it describes a real event that has already happened (like an accident, damage, or breakdown).\n")
	prompt.WriteString("- \"my car broke down\" -> YES\n")
	prompt.WriteString("- \"is water damage covered?\" -> NO\n")
	prompt.WriteString("- \"there was a fire in my kitchen\" -> YES\n")
	prompt.WriteString("- \"what if there is a fire?\" -> NO\n")
	prompt.WriteString(fmt.Sprintf("Query: %q\n", query))
	prompt.WriteString("Does this describe a real event that already happened? Answer with only YES or NO.")

	return prompt.String()
}

func matchesIncidentPattern(query string) bool {
	queryLower := strings.ToLower(query)
	for _, pattern := range incidentPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}
	return false
}

func containsAnyMarker(answer string) bool {
	for _, marker := range tablePrefixMarkers {
		if strings.Contains(answer, marker) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
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
