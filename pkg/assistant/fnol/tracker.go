package fnol

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// Stage enumerates the first-notice-of-loss progression.
type Stage string

const (
	StageInitialLossReport  Stage = "initial_loss_report"
	StagePolicyVerification Stage = "policy_verification"
	StageLossTypeValidation Stage = "loss_type_validation"
	StageIncidentDetails    Stage = "incident_details"
	StageConfirmation       Stage = "confirmation"
	StageClaimNumberIssued  Stage = "claim_number_issued"
)

// State describes where in the claim-reporting flow the conversation sits.
type State struct {
	Stage                Stage
	NeedsPolicy          bool
	NeedsDetails         bool
	ReadyForConfirmation bool
}

// Evaluate derives the stage from the last recorded turn and the current
// utterance. The progression is linear with no backward transitions:
//
//	initial_loss_report -> policy_verification   last turn asked for a policy number
//	policy_verification -> incident_details      last turn validated the loss type
//	incident_details    -> confirmation          last turn collected incident details
//	confirmation        -> claim_number_issued   current utterance contains "confirmed"
//
// A fresh session always starts at initial_loss_report.
func Evaluate(lastTurn *store.Turn, userQuery string) State {
	stage := StageInitialLossReport

	if lastTurn != nil {
		lastType := string(lastTurn.QueryType)
		switch {
		case strings.Contains(lastType, string(store.QueryTypePolicyRequired)):
			stage = StagePolicyVerification
		case strings.Contains(lastType, string(store.QueryTypeLossValidated)):
			stage = StageIncidentDetails
		case strings.Contains(lastType, string(store.QueryTypeDetailsCollected)):
			stage = StageConfirmation
		case strings.Contains(strings.ToLower(userQuery), "confirmed"):
			stage = StageClaimNumberIssued
		}
	}

	return State{
		Stage:                stage,
		NeedsPolicy:          stage == StageInitialLossReport || stage == StagePolicyVerification,
		NeedsDetails:         stage == StageIncidentDetails,
		ReadyForConfirmation: stage == StageConfirmation,
	}
}

// NewClaimNumber synthesizes a claim number from the policy prefix, a
// time-based component, and a random four-digit suffix. Separators are
// stripped from the policy number first so short prefixes like SH-2025
// still yield three alphanumerics.
func NewClaimNumber(policyNumber string) string {
	compact := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(policyNumber))
	prefix := "CLM"
	if len(compact) >= 3 {
		prefix = compact[:3]
	}
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().Unix()%100000, 1000+rand.Intn(9000))
}
