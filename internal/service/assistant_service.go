package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/constant"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/dto"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/pkg/logger"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/unitofwork"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/fnol"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/history"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/intent"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/prompt"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/reference"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/relevance"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/response"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/search"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/events"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	pktNats "github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/nats"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

const (
	// clarifyTemperature is raised above the answer temperature so the
	// clarifying questions read naturally instead of template-like.
	clarifyTemperature = 0.4

	// minSubstantiveChunkLen is the shortest retrieved fragment that can
	// still carry a usable policy clause.
	minSubstantiveChunkLen = 100

	formatError = "error"
)

// qualityTerms gate retrieved chunks: at least one must appear for a chunk
// to count as policy material.
var qualityTerms = []string{"policy", "coverage", "insurance", "holder", "insured"}

// clarifiableIntents are the only intents that collect situation details
// before a detailed coverage answer.
var clarifiableIntents = map[store.QueryType]bool{
	store.QueryTypePersonalClaim: true,
	store.QueryTypePolicySummary: true,
	store.QueryTypeCoverageCheck: true,
}

// IAssistantService is the conversational entry point. One call handles one
// user turn end to end: intent analysis, policy-number gating, retrieval,
// grounded generation and session bookkeeping.
type IAssistantService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

type assistantService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	sessions       store.SessionStore
	eventPublisher *pktNats.Publisher

	classifier       *intent.Classifier
	gate             *intent.Policy
	historyBuilder   *history.Builder
	relevanceChecker *relevance.Checker
	orchestrator     *search.Orchestrator
	generator        *response.Generator
	searchConfig     search.Config

	log       logger.ILogger
	llmLogger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	sessions store.SessionStore,
	promptRegistry *prompt.Registry,
	eventPublisher *pktNats.Publisher,
	appLogger logger.ILogger,
) IAssistantService {
	llmLogger := initLLMLogger()

	return &assistantService{
		uowFactory:       uowFactory,
		llmProvider:      llmProvider,
		sessions:         sessions,
		eventPublisher:   eventPublisher,
		classifier:       intent.NewClassifier(llmProvider, llmLogger),
		gate:             intent.NewPolicy(llmProvider, llmLogger),
		historyBuilder:   history.NewBuilder(llmProvider, promptRegistry, llmLogger),
		relevanceChecker: relevance.NewChecker(llmProvider, llmLogger),
		orchestrator:     search.NewOrchestrator(embeddingProvider, llmLogger),
		generator:        response.NewGenerator(llmProvider, promptRegistry, llmLogger),
		searchConfig:     search.DefaultConfig(),
		log:              appLogger,
		llmLogger:        llmLogger,
		locks:            make(map[string]*sync.Mutex),
	}
}

// initLLMLogger writes the pipeline trace to a dedicated file so model
// decisions can be audited without digging through the structured app log.
func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "assistant_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create log directory: %v", err)
		return log.New(os.Stdout, "[ASSISTANT] ", log.LstdFlags)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Failed to open assistant log file: %v", err)
		return log.New(os.Stdout, "[ASSISTANT] ", log.LstdFlags)
	}
	return log.New(file, "[ASSISTANT] ", log.LstdFlags)
}

// sessionLock returns the mutex for one session, creating it on first use.
// Turns within a session run strictly in order; distinct sessions never
// block each other.
func (s *assistantService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *assistantService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	userQuery := strings.TrimSpace(request.Query)
	sessionID := strings.TrimSpace(request.SessionId)
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", time.Now().Unix())
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, ok := s.sessions.Get(sessionID)
	if !ok {
		session = store.NewSession(sessionID)
	}

	// Greetings never touch the model or the vector store, and they leave
	// no trace in the conversation history.
	if relevance.IsGreeting(userQuery) {
		return &dto.ChatResponse{
			Answer:     constant.GreetingReply,
			QueryType:  store.QueryTypeGreeting,
			References: []string{},
			SessionId:  sessionID,
		}, nil
	}

	analysis := s.classifier.Classify(ctx, userQuery)

	// When the previous turn asked for a policy number, the current message
	// is usually just that number. The real intent lives in the interrupted
	// query, so classification restarts from there.
	if last := session.LastTurn(); last != nil && last.QueryType == store.QueryTypePolicyRequired && last.Query != "" {
		s.llmLogger.Printf("[CONTEXT] Restoring intent from interrupted query %q", last.Query)
		analysis = s.classifier.Classify(ctx, last.Query)
	}

	conversationContext, isFollowUpWithDetails := s.historyBuilder.Context(session)
	incidentContext := s.historyBuilder.DetectIncident(ctx, session)

	// The incident stays in the retrieval query even when the user only
	// sends the policy number afterwards.
	searchSeed := userQuery
	if incidentContext != "" && !strings.Contains(userQuery, incidentContext) {
		searchSeed = incidentContext + " " + userQuery
	}
	contextualQuery := s.historyBuilder.ContextualQuery(ctx, searchSeed, conversationContext)

	foundPolicyNumbers := parser.CombinedExtract(contextualQuery)
	if conversationContext != "" {
		foundPolicyNumbers = mergeUnique(foundPolicyNumbers, parser.CombinedExtract(conversationContext))
	}
	if len(foundPolicyNumbers) == 0 {
		foundPolicyNumbers = s.historyBuilder.FallbackPolicyNumbers(session)
	}
	s.llmLogger.Printf("[EXTRACT] Policy numbers in scope: %v", foundPolicyNumbers)

	// The mandatory gate. Policy-specific intents stop here until every
	// required identifier is on the table.
	requirement := s.gate.Requirement(analysis.PrimaryIntent)
	if requirement.Required && len(foundPolicyNumbers) == 0 {
		s.llmLogger.Printf("[GATE] Intent %s requires a policy number, none found", analysis.PrimaryIntent)
		return s.askForPolicyNumber(ctx, session, requirement, userQuery), nil
	}
	if requirement.Required && len(foundPolicyNumbers) < requirement.MinPolicies {
		s.llmLogger.Printf("[GATE] Intent %s needs %d policy numbers, have %d",
			analysis.PrimaryIntent, requirement.MinPolicies, len(foundPolicyNumbers))
		return s.askForMorePolicyNumbers(session, userQuery, foundPolicyNumbers, requirement.MinPolicies), nil
	}

	// Broad questions with no history to anchor them get clarifying
	// questions instead of a shot-in-the-dark retrieval.
	if analysis.NeedsClarification && conversationContext == "" {
		return s.askOpenEndedClarification(ctx, session, userQuery), nil
	}

	if s.shouldCollectDetails(analysis, session, foundPolicyNumbers) {
		return s.askCoverageDetails(ctx, session, userQuery, incidentContext, foundPolicyNumbers), nil
	}

	if len(foundPolicyNumbers) == 0 {
		s.llmLogger.Printf("[ERROR] Search reached with no policy identifiers, intent %s", analysis.PrimaryIntent)
		return &dto.ChatResponse{
			Answer:     constant.MissingPolicyReply,
			QueryType:  store.QueryTypePolicyRequired,
			FormatUsed: formatError,
			References: []string{},
			SessionId:  sessionID,
		}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	s.llmLogger.Printf("[SEARCH] Content-based search for policies %v", foundPolicyNumbers)
	chunks := s.orchestrator.TargetedSearch(ctx, uow, foundPolicyNumbers, s.searchConfig)
	if len(chunks) == 0 {
		s.llmLogger.Printf("[SEARCH] Targeted pass empty, widening to broad search")
		chunks = s.orchestrator.BroadSearch(ctx, uow, foundPolicyNumbers, s.searchConfig)
	}
	if len(chunks) == 0 {
		return s.policyNotFound(session, userQuery, foundPolicyNumbers), nil
	}
	chunks = filterSubstantive(chunks)

	verdict, relevantChunks := s.relevanceChecker.Check(ctx, contextualQuery, chunks, conversationContext)
	if verdict == relevance.VerdictNonInsurance {
		return &dto.ChatResponse{
			Answer:     constant.NonInsuranceReply,
			QueryType:  store.QueryTypeNonInsurance,
			References: []string{},
			SessionId:  sessionID,
		}, nil
	}

	if (analysis.PrimaryIntent == store.QueryTypeComparison || analysis.PrimaryIntent == store.QueryTypeSimilarSearch) &&
		len(foundPolicyNumbers) >= 2 {
		relevantChunks = s.orchestrator.EnrichForComparison(ctx, uow, contextualQuery, relevantChunks, s.searchConfig)
	}

	var policyFields parser.PolicyFields
	if analysis.PrimaryIntent == store.QueryTypePolicySummary || analysis.PrimaryIntent == store.QueryTypeSpecificPerson {
		policyFields = parser.ExtractPolicyFields(relevantChunks)
	}

	documentContext := response.BuildContext(relevantChunks, foundPolicyNumbers, policyFields, conversationContext)
	claimState := fnol.Evaluate(session.LastTurn(), userQuery)

	answer := s.generator.Generate(ctx, response.Input{
		Query:               userQuery,
		Intent:              analysis.PrimaryIntent,
		Stage:               claimState.Stage,
		DocumentContext:     documentContext,
		ConversationContext: conversationContext,
	})

	// A freshly issued claim number is appended after generation so the
	// bullet-conversion pass can never reword it.
	if analysis.PrimaryIntent == store.QueryTypeFnol && claimState.Stage == fnol.StageClaimNumberIssued {
		claimNumber := fnol.NewClaimNumber(foundPolicyNumbers[0])
		answer = response.WithClaimNumber(answer, claimNumber)
		s.publishClaimReported(ctx, sessionID, claimNumber, foundPolicyNumbers[0])
	}

	references, sources := reference.Build(relevantChunks, answer)
	answer = reference.AddCitations(answer, sources)
	if references == nil {
		references = []string{}
	}

	session.AppendTurn(userQuery, answer, analysis.PrimaryIntent)
	session.MarkClarified(foundPolicyNumbers, true)
	s.sessions.Save(session)

	s.recordInteraction(ctx, sessionID, userQuery, answer, analysis.PrimaryIntent, references)

	needsPolicyholderInfo := analysis.NeedsPolicyholderInfo ||
		isFollowUpWithDetails ||
		mentionsBreakdownEscalation(conversationContext, userQuery)

	return &dto.ChatResponse{
		Answer:                answer,
		QueryType:             analysis.PrimaryIntent,
		FormatUsed:            analysis.FormatPreference,
		References:            references,
		SessionId:             sessionID,
		NeedsPolicyholderInfo: needsPolicyholderInfo,
		IsPersonalClaim:       analysis.PrimaryIntent == store.QueryTypePersonalClaim,
	}, nil
}

// askForPolicyNumber answers the mandatory gate: the intent needs a policy
// number and none was found anywhere in the turn or its history.
func (s *assistantService) askForPolicyNumber(ctx context.Context, session *store.Session, requirement intent.Requirement, userQuery string) *dto.ChatResponse {
	askMessage := s.gate.AskMessage(ctx, requirement, userQuery)
	if askMessage == "" {
		askMessage = constant.PolicyGateFallbackAsk
	}

	session.AppendTurn(userQuery, askMessage, store.QueryTypePolicyRequired)
	s.sessions.Save(session)

	return &dto.ChatResponse{
		Answer:                askMessage,
		QueryType:             store.QueryTypePolicyRequired,
		FormatUsed:            intent.FormatClarification,
		References:            []string{},
		SessionId:             session.ID,
		NeedsPolicyholderInfo: true,
		MissingPolicyNumbers:  true,
	}
}

// askForMorePolicyNumbers handles intents that need several identifiers,
// comparison being the usual case: one policy number is not enough to
// compare anything.
func (s *assistantService) askForMorePolicyNumbers(session *store.Session, userQuery string, policyNumbers []string, minRequired int) *dto.ChatResponse {
	var askMessage string
	if len(policyNumbers) == 1 && minRequired == 2 {
		askMessage = fmt.Sprintf(constant.ComparisonOneMoreTemplate, policyNumbers[0])
	} else {
		askMessage = fmt.Sprintf(constant.ComparisonInsufficientTemplate, len(policyNumbers), minRequired)
	}

	session.AppendTurn(userQuery, askMessage, store.QueryTypePolicyRequired)
	s.sessions.Save(session)

	return &dto.ChatResponse{
		Answer:                askMessage,
		QueryType:             store.QueryTypePolicyRequired,
		FormatUsed:            intent.FormatClarification,
		References:            []string{},
		SessionId:             session.ID,
		NeedsPolicyholderInfo: true,
		MissingPolicyNumbers:  true,
		RequiresPolicyNumber:  true,
		PolicyNumbersFound:    policyNumbers,
	}
}

func (s *assistantService) askOpenEndedClarification(ctx context.Context, session *store.Session, userQuery string) *dto.ChatResponse {
	question, err := s.llmProvider.Generate(ctx, fmt.Sprintf(constant.OpenEndedClarifyPromptTemplate, userQuery))
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			s.llmLogger.Printf("[WARN] Open-ended clarification failed: %v", err)
		}
		question = constant.OpenEndedClarifyFallback
	}

	session.AppendTurn(userQuery, question, store.QueryTypeOpenEnded)
	s.sessions.Save(session)

	return &dto.ChatResponse{
		Answer:             question,
		QueryType:          store.QueryTypeOpenEnded,
		References:         []string{},
		SessionId:          session.ID,
		NeedsClarification: true,
	}
}

// shouldCollectDetails decides whether this turn asks situation questions
// instead of answering. It fires once per policy number per session: after
// the questions go out the identifiers are tracked as asked, and a later
// turn with the details proceeds straight to retrieval.
func (s *assistantService) shouldCollectDetails(analysis *intent.Analysis, session *store.Session, policyNumbers []string) bool {
	if len(policyNumbers) == 0 {
		return false
	}
	if analysis.FormatPreference != intent.FormatClarification && analysis.FormatPreference != intent.FormatNeedsClarification {
		return false
	}
	if !clarifiableIntents[analysis.PrimaryIntent] {
		return false
	}
	return session.HasUnclarified(policyNumbers)
}

func (s *assistantService) askCoverageDetails(ctx context.Context, session *store.Session, userQuery, incidentContext string, policyNumbers []string) *dto.ChatResponse {
	policyList := strings.Join(policyNumbers, ", ")
	situation := fmt.Sprintf(constant.GeneralSituationTemplate, userQuery, policyList)
	if incidentContext != "" {
		situation = fmt.Sprintf(constant.IncidentSituationTemplate, incidentContext, policyList, userQuery)
	}

	question, err := s.llmProvider.Generate(ctx,
		fmt.Sprintf(constant.CoverageClarifyPromptTemplate, situation, userQuery),
		llm.WithTemperature(clarifyTemperature))
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			s.llmLogger.Printf("[ERROR] Coverage clarification generation failed: %v", err)
		}
		question = fmt.Sprintf(constant.CoverageClarifyFallbackTemplate, policyNumbers[0])
	}

	session.MarkClarified(policyNumbers, false)
	session.AppendTurn(userQuery, question, store.QueryTypeNeedsMoreContext)
	s.sessions.Save(session)

	return &dto.ChatResponse{
		Answer:              question,
		QueryType:           store.QueryTypeNeedsClarification,
		FormatUsed:          intent.FormatClarification,
		References:          []string{},
		SessionId:           session.ID,
		PolicyNumbersFound:  policyNumbers,
		AwaitingUserDetails: true,
	}
}

// policyNotFound reports identifiers that match no document content, with
// enough diagnostic detail for the user to self-correct.
func (s *assistantService) policyNotFound(session *store.Session, userQuery string, policyNumbers []string) *dto.ChatResponse {
	compact := strings.NewReplacer("-", "", "_", "").Replace(policyNumbers[0])
	answer := fmt.Sprintf(constant.PolicyNotFoundTemplate, strings.Join(policyNumbers, "**, **"), compact)

	session.AppendTurn(userQuery, answer, store.QueryTypePolicyNotFoundInContent)
	s.sessions.Save(session)

	return &dto.ChatResponse{
		Answer:                answer,
		QueryType:             store.QueryTypePolicyNotFound,
		FormatUsed:            formatError,
		References:            []string{},
		SessionId:             session.ID,
		PolicyNumbersSearched: policyNumbers,
		SearchType:            "content_based",
		DocumentsSearched:     "all_available",
	}
}

func (s *assistantService) publishClaimReported(ctx context.Context, sessionID, claimNumber, policyNumber string) {
	if s.eventPublisher == nil {
		return
	}

	event := events.BaseEvent{
		Type: events.TypeClaimReported,
		Data: map[string]interface{}{
			"claim_number":  claimNumber,
			"policy_number": policyNumber,
			"session_id":    sessionID,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish claim reported event: %v\n", err)
	}
}

// recordInteraction writes the audit row for a completed turn. Failures are
// logged and swallowed; the answer has already been produced.
func (s *assistantService) recordInteraction(ctx context.Context, sessionID, query, answer string, queryType store.QueryType, references []string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction := &entity.InteractionLog{
		Id:         uuid.New(),
		SessionId:  sessionID,
		Query:      query,
		Answer:     answer,
		QueryType:  string(queryType),
		References: references,
		CreatedAt:  time.Now(),
	}
	if err := uow.InteractionLogRepository().Create(ctx, interaction); err != nil {
		s.log.Warn("AssistantService", "Interaction log write failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// filterSubstantive keeps chunks long enough to carry a full clause and
// mentioning at least one coverage term. When nothing passes, the original
// set is returned unchanged.
func filterSubstantive(chunks []store.Chunk) []store.Chunk {
	kept := make([]store.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Text) <= minSubstantiveChunkLen {
			continue
		}
		lower := strings.ToLower(chunk.Text)
		for _, term := range qualityTerms {
			if strings.Contains(lower, term) {
				kept = append(kept, chunk)
				break
			}
		}
	}
	if len(kept) == 0 {
		return chunks
	}
	return kept
}

// mergeUnique appends extras onto base, preserving first-seen order.
func mergeUnique(base, extras []string) []string {
	seen := make(map[string]bool, len(base)+len(extras))
	merged := make([]string, 0, len(base)+len(extras))
	for _, value := range append(base, extras...) {
		if seen[value] {
			continue
		}
		seen[value] = true
		merged = append(merged, value)
	}
	return merged
}

// mentionsBreakdownEscalation spots a conversation that began as a roadside
// breakdown and turned into a crash, which moves it into claim territory.
func mentionsBreakdownEscalation(conversationContext, userQuery string) bool {
	contextLower := strings.ToLower(conversationContext)
	if !strings.Contains(contextLower, "broke down") && !strings.Contains(contextLower, "breakdown") {
		return false
	}
	queryLower := strings.ToLower(userQuery)
	return strings.Contains(queryLower, "crash") || strings.Contains(queryLower, "accident")
}
