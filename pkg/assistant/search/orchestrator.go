package search

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/unitofwork"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// Orchestrator handles vector retrieval and content-based policy filtering.
// Policy numbers live inside document text, not metadata, so every search
// casts a semantic net first and validates the catch against the actual text.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

// NewOrchestrator creates a new search orchestrator.
func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Config encapsulates retrieval parameters.
type Config struct {
	TargetedNeighbors   int
	BroadNeighbors      int
	ComparisonNeighbors int
	MaxQueries          int // cap on query variations per targeted pass
	CandidateCap        int // wide-net chunk cap before content filtering
	BroadCandidateCap   int
	TopChunks           int // targeted result cap after sorting
	ComparisonCap       int // total chunks after comparison enrichment
}

// DefaultConfig returns default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TargetedNeighbors:   200,
		BroadNeighbors:      200,
		ComparisonNeighbors: 50,
		MaxQueries:          15,
		CandidateCap:        100,
		BroadCandidateCap:   500,
		TopChunks:           30,
		ComparisonCap:       8,
	}
}

const (
	minTargetedTextLen   = 30
	minBroadTextLen      = 10
	minComparisonTextLen = 100
)

var separatorPattern = regexp.MustCompile(`[-_]`)

var generalPolicyTerms = []string{
	"insurance policy coverage inclusions exclusions",
	"policy holder coverage details insurance",
	"insurance policy limits deductibles coverage",
}

var broadSearchTerms = []string{
	"insurance policy coverage inclusions exclusions limits",
	"policy holder insured coverage details",
	"insurance policy number coverage information",
	"policy coverage limits deductibles inclusions",
	"insurance policy documents coverage details",
}

var comparisonKeywords = []string{
	"compare", "comparison", "versus", "vs", "different", "similar", "best",
	"which", "other policies", "pull up", "show me", "find", "alternative",
	"like this", "similar to", "closest to", "renewal",
}

var comparisonDocTerms = []string{"insurance", "policy", "coverage", "commercial", "business", "auto", "renters"}

// TargetedSearch runs per-policy query variations, keeps only chunks whose
// text actually contains one of the policy numbers, and returns the top 30
// sorted by page then text length. Empty result means the numbers do not
// appear in any indexed document.
func (o *Orchestrator) TargetedSearch(ctx context.Context, uow unitofwork.UnitOfWork, policyNumbers []string, config Config) []store.Chunk {
	if len(policyNumbers) == 0 {
		return nil
	}

	queries := buildPolicyQueries(policyNumbers, config.MaxQueries)

	var candidates []store.Chunk
	seen := make(map[string]bool)

	for _, searchQuery := range queries {
		if len(candidates) >= config.CandidateCap {
			break
		}

		for _, result := range o.findNeighbors(ctx, uow, searchQuery, config.TargetedNeighbors) {
			if seen[result.ChunkKey] || len(result.Text) < minTargetedTextLen {
				continue
			}
			candidates = append(candidates, toChunk(result))
			seen[result.ChunkKey] = true
		}
	}

	o.logger.Printf("[DEBUG] Targeted search gathered %d candidate chunks for %v", len(candidates), policyNumbers)

	matched := FilterByPolicyNumbers(candidates, policyNumbers)
	if len(matched) == 0 {
		o.logger.Printf("[WARN] No chunks contain policy numbers %v", policyNumbers)
		return nil
	}

	sortByPageAndLength(matched)
	if len(matched) > config.TopChunks {
		matched = matched[:config.TopChunks]
	}

	o.logger.Printf("[DEBUG] Targeted search kept %d chunks containing policy numbers", len(matched))
	return matched
}

// BroadSearch sweeps the index with generic insurance terms when the targeted
// variations came back empty, then applies the same content filter.
func (o *Orchestrator) BroadSearch(ctx context.Context, uow unitofwork.UnitOfWork, policyNumbers []string, config Config) []store.Chunk {
	if len(policyNumbers) == 0 {
		return nil
	}

	var candidates []store.Chunk
	seen := make(map[string]bool)

	for _, term := range broadSearchTerms {
		if len(candidates) >= config.BroadCandidateCap {
			break
		}

		for _, result := range o.findNeighbors(ctx, uow, term, config.BroadNeighbors) {
			if seen[result.ChunkKey] || len(result.Text) <= minBroadTextLen {
				continue
			}
			candidates = append(candidates, toChunk(result))
			seen[result.ChunkKey] = true

			if len(candidates) >= config.BroadCandidateCap {
				break
			}
		}
	}

	o.logger.Printf("[DEBUG] Broad sweep gathered %d candidate chunks", len(candidates))

	matched := FilterByPolicyNumbers(candidates, policyNumbers)
	if len(matched) == 0 {
		o.logger.Printf("[WARN] Broad sweep found no chunks containing policy numbers %v", policyNumbers)
	}
	return matched
}

// EnrichForComparison pads a comparison result set with chunks from other
// relevant policies, one chunk per newly seen document, total capped at 8.
// Queries without comparison phrasing just get capped.
func (o *Orchestrator) EnrichForComparison(ctx context.Context, uow unitofwork.UnitOfWork, query string, current []store.Chunk, config Config) []store.Chunk {
	limit := config.ComparisonCap

	if !mentionsComparison(query) {
		return capChunks(current, limit)
	}

	names := parser.ExtractPolicyNames(query)

	enhancedQuery := fmt.Sprintf("%s insurance policy coverage business", query)
	if len(names) > 0 {
		enhancedQuery = fmt.Sprintf("%s %s insurance policy coverage", query, strings.Join(names, " "))
	}

	seenDocuments := make(map[string]bool)
	for _, chunk := range current {
		seenDocuments[chunk.DocumentName] = true
	}

	var additional []store.Chunk
	for _, result := range o.findNeighbors(ctx, uow, enhancedQuery, config.ComparisonNeighbors) {
		if len(additional) >= limit {
			break
		}

		docName := result.DocumentName
		if docName == "" {
			docName = parser.ExtractDocumentName(result.ChunkKey)
		}
		if seenDocuments[docName] || !isRelevantForComparison(docName, query, names) {
			continue
		}
		if len(result.Text) <= minComparisonTextLen {
			continue
		}

		additional = append(additional, comparisonChunk(result))
		seenDocuments[docName] = true
	}

	o.logger.Printf("[DEBUG] Comparison enrichment added %d chunks from other policies", len(additional))
	return capChunks(append(current, additional...), limit)
}

func (o *Orchestrator) findNeighbors(ctx context.Context, uow unitofwork.UnitOfWork, query string, limit int) []*entity.DocumentChunk {
	embeddingRes, err := o.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		o.logger.Printf("[ERROR] Embedding generation failed for %q: %v", query, err)
		return nil
	}

	results, err := uow.DocumentChunkRepository().SearchSimilar(ctx, embeddingRes.Embedding.Values, limit)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed for %q: %v", query, err)
		return nil
	}
	return results
}

// FilterByPolicyNumbers keeps chunks whose text contains at least one of the
// policy numbers under separator-insensitive matching.
func FilterByPolicyNumbers(chunks []store.Chunk, policyNumbers []string) []store.Chunk {
	if len(chunks) == 0 || len(policyNumbers) == 0 {
		return nil
	}

	var matched []store.Chunk
	for _, chunk := range chunks {
		for _, policyNumber := range policyNumbers {
			if parser.ContainsPolicyNumber(chunk.Text, policyNumber) {
				matched = append(matched, chunk)
				break
			}
		}
	}
	return matched
}

func buildPolicyQueries(policyNumbers []string, maxQueries int) []string {
	var queries []string

	for _, policyNumber := range policyNumbers {
		clean := separatorPattern.ReplaceAllString(policyNumber, "")
		spaced := separatorPattern.ReplaceAllString(policyNumber, " ")

		queries = append(queries,
			fmt.Sprintf("policy number %s", policyNumber),
			fmt.Sprintf("%s insurance policy coverage", policyNumber),
			fmt.Sprintf("%s policy holder coverage", clean),
			fmt.Sprintf("policy %s inclusions exclusions", spaced),
			fmt.Sprintf("insurance policy %s details", policyNumber),
			fmt.Sprintf("%s coverage limits deductibles", policyNumber),
		)
	}

	queries = append(queries, generalPolicyTerms...)

	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// sortByPageAndLength orders by numeric page ascending (non-numeric pages
// sink to the back), longer text first within a page.
func sortByPageAndLength(chunks []store.Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		pi, pj := pageRank(chunks[i].Page), pageRank(chunks[j].Page)
		if pi != pj {
			return pi < pj
		}
		return len(chunks[i].Text) > len(chunks[j].Text)
	})
}

func pageRank(page string) int {
	if n, err := strconv.Atoi(page); err == nil && n >= 0 {
		return n
	}
	return 999
}

func mentionsComparison(query string) bool {
	queryLower := strings.ToLower(query)
	for _, keyword := range comparisonKeywords {
		if strings.Contains(queryLower, keyword) {
			return true
		}
	}
	return false
}

func isRelevantForComparison(docName, query string, mentionedNames []string) bool {
	docLower := strings.ToLower(docName)
	queryLower := strings.ToLower(query)

	for _, name := range mentionedNames {
		if strings.Contains(docLower, strings.ToLower(name)) {
			return true
		}
	}

	for _, term := range comparisonDocTerms {
		if strings.Contains(docLower, term) {
			return true
		}
	}

	// Geographic or business-type overlap: the first two words of the
	// document name appearing in the query.
	words := strings.Fields(docLower)
	if len(words) > 2 {
		words = words[:2]
	}
	for _, word := range words {
		if strings.Contains(queryLower, word) {
			return true
		}
	}
	return false
}

func capChunks(chunks []store.Chunk, limit int) []store.Chunk {
	if len(chunks) > limit {
		return chunks[:limit]
	}
	return chunks
}

func toChunk(e *entity.DocumentChunk) store.Chunk {
	name := e.DocumentName
	if name == "" {
		name = parser.ExtractDocumentName(e.ChunkKey)
	}

	page := e.Page
	if page == "" {
		page = parser.ParsePageNumber(e.ChunkKey, e.Text)
	}

	section := e.Section
	if section == "" {
		section = "Policy Information"
	}

	return store.Chunk{
		ID:           e.ChunkKey,
		DocumentName: name,
		Page:         page,
		Section:      section,
		Subsection:   e.Subsection,
		Text:         e.Text,
	}
}

// comparisonChunk re-derives section info from the text when the stored
// section is blank or a placeholder, without the "Policy Information" default.
func comparisonChunk(e *entity.DocumentChunk) store.Chunk {
	name := e.DocumentName
	if name == "" {
		name = parser.ExtractDocumentName(e.ChunkKey)
	}

	page := e.Page
	if page == "" {
		page = parser.ParsePageNumber(e.ChunkKey, e.Text)
	}

	section := e.Section
	subsection := e.Subsection
	lower := strings.ToLower(section)
	if section == "" || lower == "document content" || lower == "general" {
		derivedSection, derivedSubsection := parser.ExtractSectionInfo(e.Text)
		if section == "" {
			section = derivedSection
		}
		if subsection == "" {
			subsection = derivedSubsection
		}
	}

	return store.Chunk{
		ID:           e.ChunkKey,
		DocumentName: name,
		Page:         page,
		Section:      section,
		Subsection:   subsection,
		Text:         e.Text,
	}
}
