package relevance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/store"
)

type stubLLM struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"plain hello", "hello", true},
		{"hi with filler", "hi there", true},
		{"courtesy question", "what can you do", true},
		{"farewell", "thanks, bye", true},
		{"six words with greeting", "good morning, how are you today", false},
		{"long sentence containing hello", "hello I need help filing a claim for my car", false},
		{"domain question", "what is my deductible", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGreeting(tt.query); got != tt.want {
				t.Errorf("IsGreeting(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	t.Run("greeting short-circuits before any model call", func(t *testing.T) {
		stub := &stubLLM{response: "NO"}
		checker := NewChecker(stub, testLogger())

		verdict, chunks := checker.Check(context.Background(), "hi", []store.Chunk{{Text: strings.Repeat("x", 40)}}, "")
		if verdict != VerdictGreeting {
			t.Fatalf("verdict = %q, want %q", verdict, VerdictGreeting)
		}
		if chunks != nil {
			t.Errorf("chunks = %v, want nil", chunks)
		}
		if stub.calls != 0 {
			t.Errorf("llm calls = %d, want 0", stub.calls)
		}
	})

	t.Run("keyword hit skips the model", func(t *testing.T) {
		stub := &stubLLM{response: "NO"}
		checker := NewChecker(stub, testLogger())

		verdict, _ := checker.Check(context.Background(), "What does my policy cover for water damage?", nil, "")
		if verdict != VerdictInsurance {
			t.Fatalf("verdict = %q, want %q", verdict, VerdictInsurance)
		}
		if stub.calls != 0 {
			t.Errorf("llm calls = %d, want 0", stub.calls)
		}
	})

	t.Run("keyword miss consults the model", func(t *testing.T) {
		stub := &stubLLM{response: "YES"}
		checker := NewChecker(stub, testLogger())

		query := "my basement is full of water after the storm"
		verdict, _ := checker.Check(context.Background(), query, nil, "prior context")
		if verdict != VerdictInsurance {
			t.Fatalf("verdict = %q, want %q", verdict, VerdictInsurance)
		}
		if stub.calls != 1 {
			t.Errorf("llm calls = %d, want 1", stub.calls)
		}
		if !strings.Contains(stub.lastPrompt, query) {
			t.Errorf("prompt missing query, got %q", stub.lastPrompt)
		}
		if !strings.Contains(stub.lastPrompt, "prior context") {
			t.Errorf("prompt missing conversation context, got %q", stub.lastPrompt)
		}
	})

	t.Run("model NO yields non_insurance", func(t *testing.T) {
		stub := &stubLLM{response: "NO"}
		checker := NewChecker(stub, testLogger())

		verdict, chunks := checker.Check(context.Background(), "what is the best pizza place nearby", []store.Chunk{{Text: strings.Repeat("x", 40)}}, "")
		if verdict != VerdictNonInsurance {
			t.Fatalf("verdict = %q, want %q", verdict, VerdictNonInsurance)
		}
		if chunks != nil {
			t.Errorf("chunks = %v, want nil", chunks)
		}
	})

	t.Run("model failure falls back to insurance", func(t *testing.T) {
		stub := &stubLLM{err: errors.New("quota exhausted")}
		checker := NewChecker(stub, testLogger())

		verdict, _ := checker.Check(context.Background(), "the pipe under the sink burst open", nil, "")
		if verdict != VerdictInsurance {
			t.Fatalf("verdict = %q, want %q", verdict, VerdictInsurance)
		}
	})
}

func TestCheckFiltersChunks(t *testing.T) {
	stub := &stubLLM{}
	checker := NewChecker(stub, testLogger())

	var chunks []store.Chunk
	for i := 0; i < 25; i++ {
		text := strings.Repeat("a", 40)
		if i == 2 {
			text = "too short"
		}
		chunks = append(chunks, store.Chunk{ID: fmt.Sprintf("c%d", i), Text: text})
	}

	verdict, filtered := checker.Check(context.Background(), "fire coverage for my policy", chunks, "")
	if verdict != VerdictInsurance {
		t.Fatalf("verdict = %q, want %q", verdict, VerdictInsurance)
	}
	if len(filtered) != maxChunksOut {
		t.Fatalf("len(filtered) = %d, want %d", len(filtered), maxChunksOut)
	}
	if filtered[0].ID != "c0" {
		t.Errorf("filtered[0].ID = %q, want c0", filtered[0].ID)
	}
	for _, chunk := range filtered {
		if chunk.ID == "c2" {
			t.Error("short chunk c2 survived the filter")
		}
		if chunk.ID == "c20" || chunk.ID == "c21" || chunk.ID == "c22" || chunk.ID == "c23" || chunk.ID == "c24" {
			t.Errorf("chunk %s beyond the first 20 was considered", chunk.ID)
		}
	}
}

func TestCheckBoundaryLengthChunk(t *testing.T) {
	stub := &stubLLM{}
	checker := NewChecker(stub, testLogger())

	chunks := []store.Chunk{
		{ID: "exact", Text: strings.Repeat("b", 30)},
		{ID: "longer", Text: strings.Repeat("b", 31)},
	}

	_, filtered := checker.Check(context.Background(), "policy limits", chunks, "")
	if len(filtered) != 1 || filtered[0].ID != "longer" {
		t.Fatalf("filtered = %v, want only the 31-char chunk", filtered)
	}
}
