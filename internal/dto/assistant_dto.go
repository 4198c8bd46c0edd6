package dto

import (
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

type ChatRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id"`
}

// ChatResponse is the flat turn payload. Answer, QueryType, References and
// SessionId are always present; the remaining flags carry omit-empty
// semantics and only appear on the branches that set them.
type ChatResponse struct {
	Answer                string          `json:"answer"`
	QueryType             store.QueryType `json:"query_type"`
	FormatUsed            string          `json:"format_used,omitempty"`
	References            []string        `json:"references"`
	SessionId             string          `json:"session_id"`
	NeedsClarification    bool            `json:"needs_clarification,omitempty"`
	NeedsPolicyholderInfo bool            `json:"needs_policyholder_info,omitempty"`
	MissingPolicyNumbers  bool            `json:"missing_policy_numbers,omitempty"`
	RequiresPolicyNumber  bool            `json:"requires_policy_number,omitempty"`
	AwaitingUserDetails   bool            `json:"awaiting_user_details,omitempty"`
	IsPersonalClaim       bool            `json:"is_personal_claim,omitempty"`
	PolicyNumbersFound    []string        `json:"policy_numbers_found,omitempty"`
	PolicyNumbersSearched []string        `json:"policy_numbers_searched,omitempty"`
	SearchType            string          `json:"search_type,omitempty"`
	DocumentsSearched     string          `json:"documents_searched,omitempty"`
}
