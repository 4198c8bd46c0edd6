package store

import "time"

// QueryType labels the outcome of a processed turn. It doubles as the
// dialogue state recorded on history: the orchestrator reads the last
// turn's type to decide context restoration and FNOL staging.
type QueryType string

const (
	QueryTypeGreeting                QueryType = "greeting"
	QueryTypePolicyRequired          QueryType = "policy_required"
	QueryTypeOpenEnded               QueryType = "open_ended"
	QueryTypeNeedsMoreContext        QueryType = "needs_more_context"
	QueryTypeLossValidated           QueryType = "loss_validated"
	QueryTypeDetailsCollected        QueryType = "details_collected"
	QueryTypePolicyNotFoundInContent QueryType = "policy_not_found_in_content"
	QueryTypePolicyNotFound          QueryType = "policy_not_found"
	QueryTypeNeedsClarification      QueryType = "needs_clarification"
	QueryTypeNonInsurance            QueryType = "non_insurance"
	QueryTypeFnol                    QueryType = "fnol"
	QueryTypePolicyInfo              QueryType = "policy_info"
	QueryTypeComparison              QueryType = "comparison"
	QueryTypeGeneral                 QueryType = "general"
	QueryTypePersonalClaim           QueryType = "personal_claim"
	QueryTypePolicySummary           QueryType = "policy_summary"
	QueryTypeCoverageCheck           QueryType = "coverage_check"
	QueryTypeLimitsDeductibles       QueryType = "limits_deductibles"
	QueryTypeLimitConflict           QueryType = "limit_conflict"
	QueryTypeSimilarSearch           QueryType = "similar_search"
	QueryTypeSpecificPerson          QueryType = "specific_person"
)

// MaxTurns is the per-session history cap. Oldest turns are evicted first.
const MaxTurns = 15

// Turn is one completed exchange. Immutable once appended.
type Turn struct {
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Timestamp int64     `json:"timestamp"`
	QueryType QueryType `json:"query_type"`
}

// Session holds the per-conversation dialogue state: the ordered turn
// history plus the clarification flag per policy number (false = questions
// asked but not yet answered, true = a detailed answer was delivered).
type Session struct {
	ID        string          `json:"id"`
	Turns     []Turn          `json:"turns"`
	Clarified map[string]bool `json:"clarified"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSession creates an empty session for the given identifier.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Clarified: make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LastTurn returns the most recent turn, or nil for a fresh session.
func (s *Session) LastTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}

// RecentTurns returns up to n most recent turns, oldest first.
func (s *Session) RecentTurns(n int) []Turn {
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// AppendTurn records a completed exchange and enforces the history cap.
func (s *Session) AppendTurn(query, answer string, queryType QueryType) {
	s.Turns = append(s.Turns, Turn{
		Query:     query,
		Answer:    answer,
		Timestamp: time.Now().Unix(),
		QueryType: queryType,
	})
	if len(s.Turns) > MaxTurns {
		s.Turns = s.Turns[len(s.Turns)-MaxTurns:]
	}
	s.UpdatedAt = time.Now()
}

// MarkClarified sets the clarification flag for every given policy number.
func (s *Session) MarkClarified(policyNumbers []string, clarified bool) {
	if s.Clarified == nil {
		s.Clarified = make(map[string]bool)
	}
	for _, p := range policyNumbers {
		s.Clarified[p] = clarified
	}
}

// HasUnclarified reports whether any of the given policy numbers has never
// been seen in this session. First sight means clarifying questions are due.
func (s *Session) HasUnclarified(policyNumbers []string) bool {
	for _, p := range policyNumbers {
		if _, seen := s.Clarified[p]; !seen {
			return true
		}
	}
	return false
}

// SessionStore is the injected persistence boundary for dialogue state.
// Implementations must be safe for concurrent use; turn-level
// read-modify-write for a single session is serialized by the caller.
type SessionStore interface {
	Get(sessionID string) (*Session, bool)
	Save(session *Session)
	Delete(sessionID string)
}

// Chunk is a retrieved document passage with its source metadata. The
// pipeline treats chunks as read-only: it filters, sorts and deduplicates
// but never mutates the text.
type Chunk struct {
	ID           string `json:"id"`
	DocumentName string `json:"document_name"`
	Page         string `json:"page"`
	Section      string `json:"section"`
	Subsection   string `json:"subsection"`
	Text         string `json:"text"`
}
