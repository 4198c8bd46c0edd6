package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/fnol"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/prompt"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

// stubLLM replays queued responses and errors in call order. The last
// response repeats once the queue is exhausted.
type stubLLM struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *stubLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return s.take("")
}

func (s *stubLLM) Generate(ctx context.Context, p string, opts ...llm.Option) (string, error) {
	return s.take(p)
}

func (s *stubLLM) take(p string) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, p)

	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	if len(s.responses) > 0 {
		return s.responses[len(s.responses)-1], nil
	}
	return "", nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestGenerator(stub *stubLLM) *Generator {
	return NewGenerator(stub, prompt.NewDefaultRegistry(testLogger()), testLogger())
}

func TestGenerate(t *testing.T) {
	t.Run("trims the model answer", func(t *testing.T) {
		stub := &stubLLM{responses: []string{"  The policy covers fire damage up to the stated limit.  "}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "am I covered for fire?", Intent: store.QueryTypeGeneral})
		if got != "The policy covers fire damage up to the stated limit." {
			t.Errorf("answer = %q", got)
		}
		if stub.calls != 1 {
			t.Errorf("llm calls = %d, want 1", stub.calls)
		}
	})

	t.Run("empty answer falls back", func(t *testing.T) {
		stub := &stubLLM{responses: []string{""}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeGeneral})
		if got != emptyAnswerFallback {
			t.Errorf("answer = %q, want fallback", got)
		}
	})

	t.Run("model failure falls back", func(t *testing.T) {
		stub := &stubLLM{errs: []error{errors.New("quota exhausted")}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypePolicyInfo})
		if got != emptyAnswerFallback {
			t.Errorf("answer = %q, want fallback", got)
		}
		if stub.calls != 1 {
			t.Errorf("llm calls = %d, want 1 (no conversion on empty answer)", stub.calls)
		}
	})
}

func TestGenerateScenarioPrompts(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		contains []string
		absent   []string
	}{
		{
			name: "fnol",
			in: Input{
				Query:               "the pipe burst",
				Intent:              store.QueryTypeFnol,
				Stage:               fnol.StageConfirmation,
				DocumentContext:     "CTX",
				ConversationContext: "earlier talk",
			},
			contains: []string{
				"SCENARIO: First Notice of Loss (FNOL) - Claim Reporting",
				"Current Stage: confirmation",
				`User's message: "the pipe burst"`,
				"Previous conversation: earlier talk",
				"Acknowledge their loss naturally and empathetically",
				"Context from documents: CTX",
				"Respond conversationally without bullet points.",
			},
		},
		{
			name: "policy info",
			in: Input{
				Query:               "tell me about my policy",
				Intent:              store.QueryTypePolicyInfo,
				DocumentContext:     "CTX",
				ConversationContext: "earlier talk",
			},
			contains: []string{
				"SCENARIO: Policy Information Request",
				`User's question: "tell me about my policy"`,
				"Policy context: earlier talk",
				"What else would you like to know?",
				"NO bullet points unless it's a complex table scenario.",
			},
		},
		{
			name: "comparison",
			in: Input{
				Query:           "compare my two policies",
				Intent:          store.QueryTypeComparison,
				DocumentContext: "CTX",
			},
			contains: []string{
				"SCENARIO: Policy Comparison (Table Required)",
				`User's request: "compare my two policies"`,
				"markdown table format",
				"Use the table format from SCENARIO C guidelines.",
			},
		},
		{
			name: "default conversational",
			in: Input{
				Query:           "what is my deductible",
				Intent:          store.QueryTypeCoverageCheck,
				DocumentContext: "CTX",
			},
			contains: []string{
				`User's question: "what is my deductible"`,
				"Context: CTX",
				"Respond conversationally in natural flowing sentences. No bullet points.",
			},
			absent: []string{"SCENARIO:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubLLM{responses: []string{"answer"}}
			g := newTestGenerator(stub)

			g.Generate(context.Background(), tt.in)
			if len(stub.prompts) == 0 {
				t.Fatal("no prompt captured")
			}
			p := stub.prompts[0]

			if !strings.Contains(p, "insurance policy assistant") {
				t.Error("prompt missing system guidance")
			}
			for _, want := range tt.contains {
				if !strings.Contains(p, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(p, unwanted) {
					t.Errorf("prompt unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestGenerateBulletConversion(t *testing.T) {
	bulleted := "Your coverage includes:\n- fire damage\n- theft\n- water damage"

	t.Run("small list is rewritten as prose", func(t *testing.T) {
		stub := &stubLLM{responses: []string{bulleted, "Your coverage includes fire damage, theft and water damage."}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeGeneral})
		if got != "Your coverage includes fire damage, theft and water damage." {
			t.Errorf("answer = %q, want converted prose", got)
		}
		if stub.calls != 2 {
			t.Fatalf("llm calls = %d, want 2", stub.calls)
		}
		if !strings.Contains(stub.prompts[1], bulleted) {
			t.Errorf("conversion prompt missing original answer, got %q", stub.prompts[1])
		}
		if !strings.Contains(stub.prompts[1], "Output only the conversational version.") {
			t.Errorf("conversion prompt missing instruction, got %q", stub.prompts[1])
		}
	})

	t.Run("comparison keeps its bullets", func(t *testing.T) {
		stub := &stubLLM{responses: []string{bulleted}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeComparison})
		if got != bulleted {
			t.Errorf("answer = %q, want bullets untouched", got)
		}
		if stub.calls != 1 {
			t.Errorf("llm calls = %d, want 1", stub.calls)
		}
	})

	t.Run("similar search keeps its bullets", func(t *testing.T) {
		stub := &stubLLM{responses: []string{bulleted}}
		g := newTestGenerator(stub)

		g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeSimilarSearch})
		if stub.calls != 1 {
			t.Errorf("llm calls = %d, want 1", stub.calls)
		}
	})

	t.Run("large list is kept as structure", func(t *testing.T) {
		large := "Coverages:\n- a\n- b\n- c\n- d\n- e\n- f"
		stub := &stubLLM{responses: []string{large}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeGeneral})
		if got != large {
			t.Errorf("answer = %q, want original structure", got)
		}
		if stub.calls != 1 {
			t.Errorf("llm calls = %d, want 1", stub.calls)
		}
	})

	t.Run("failed conversion keeps the original", func(t *testing.T) {
		stub := &stubLLM{responses: []string{bulleted}, errs: []error{nil, errors.New("timeout")}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeGeneral})
		if got != bulleted {
			t.Errorf("answer = %q, want original bullets", got)
		}
	})

	t.Run("empty conversion falls back", func(t *testing.T) {
		stub := &stubLLM{responses: []string{"Covered:\n- fire damage", ""}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeGeneral})
		if got != emptyAnswerFallback {
			t.Errorf("answer = %q, want fallback", got)
		}
	})

	t.Run("unicode bullets count", func(t *testing.T) {
		stub := &stubLLM{responses: []string{"Covered: • fire • theft", "Covered for fire and theft."}}
		g := newTestGenerator(stub)

		got := g.Generate(context.Background(), Input{Query: "q", Intent: store.QueryTypeGeneral})
		if got != "Covered for fire and theft." {
			t.Errorf("answer = %q, want converted prose", got)
		}
		if stub.calls != 2 {
			t.Errorf("llm calls = %d, want 2", stub.calls)
		}
	})
}

func TestBuildContext(t *testing.T) {
	chunks := []store.Chunk{
		{DocumentName: "Sunrise Commercial Property", Section: "Coverage A - Building", Page: "2", Text: "Building coverage applies to the described premises."},
		{DocumentName: "Sunrise Commercial Property", Section: "Coverage A - Building", Page: "2", Text: "Duplicate source, different text."},
		{DocumentName: "Lakeside Renters Insurance", Section: "General", Page: "5", Text: "Personal property is covered against named perils."},
	}

	t.Run("formats and deduplicates sources", func(t *testing.T) {
		got := BuildContext(chunks, []string{"GS-2025-HO3-445789"}, parser.PolicyFields{}, "")

		if !strings.Contains(got, "Source Reference: [Sunrise Commercial Property : Coverage A - Building : Page 2]\nContent:\nBuilding coverage applies to the described premises.") {
			t.Errorf("missing first source block:\n%s", got)
		}
		if strings.Contains(got, "Duplicate source, different text.") {
			t.Error("duplicate document/section/page chunk was not collapsed")
		}
		if !strings.Contains(got, "POLICY NUMBERS IN SCOPE: GS-2025-HO3-445789") {
			t.Errorf("missing policy number scope line:\n%s", got)
		}
	})

	t.Run("generic section reads as Policy Information", func(t *testing.T) {
		got := BuildContext(chunks, nil, parser.PolicyFields{}, "")
		if !strings.Contains(got, "[Lakeside Renters Insurance : Policy Information : Page 5]") {
			t.Errorf("generic section not replaced:\n%s", got)
		}
	})

	t.Run("no chunks yields the not-found line", func(t *testing.T) {
		got := BuildContext(nil, []string{"GS-2025-HO3-445789"}, parser.PolicyFields{}, "")
		if !strings.HasPrefix(got, noContextFallback) {
			t.Errorf("got %q, want prefix %q", got, noContextFallback)
		}
		if strings.Contains(got, "POLICY NUMBERS IN SCOPE") {
			t.Error("scope line should not appear without chunks")
		}
	})

	t.Run("policy fields are listed with gaps marked", func(t *testing.T) {
		fields := parser.PolicyFields{HolderName: "Maria Santos", PolicyNumber: "GS-2025-HO3-445789"}
		got := BuildContext(chunks, nil, fields, "")

		if !strings.Contains(got, "- Policy Holder: Maria Santos") {
			t.Errorf("missing holder line:\n%s", got)
		}
		if !strings.Contains(got, "- Coverage Period: Not specified to Not specified") {
			t.Errorf("missing unspecified period line:\n%s", got)
		}
	})

	t.Run("conversation context is appended last", func(t *testing.T) {
		got := BuildContext(chunks, nil, parser.PolicyFields{}, "User: hello")
		if !strings.HasSuffix(got, "Previous conversation context:\nUser: hello") {
			t.Errorf("conversation context not appended:\n%s", got)
		}
	})
}

func TestWithClaimNumber(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{
			name:   "appends when absent",
			answer: "Everything is confirmed.",
			want:   "Everything is confirmed.\n\nYour claim number is **PHI-12345-6789**. We'll be in touch within 24-48 hours to proceed with your claim.",
		},
		{
			name:   "skips when already mentioned",
			answer: "Your claim number is PHI-12345-6789.",
			want:   "Your claim number is PHI-12345-6789.",
		},
		{
			name:   "skips on cased claim id",
			answer: "We filed it under Claim ID 42.",
			want:   "We filed it under Claim ID 42.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithClaimNumber(tt.answer, "PHI-12345-6789"); got != tt.want {
				t.Errorf("WithClaimNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}
