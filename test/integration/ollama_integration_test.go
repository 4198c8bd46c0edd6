// FILE: test/integration/ollama_integration_test.go
// PURPOSE: Local Ollama LLM provider integration test
// NOTE: Drives pkg/llm/ollama, the provider selected when LLM_PROVIDER=ollama.
//       Gated on OLLAMA_BASE_URL so environments without a model server skip
//       instead of failing.

package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm/ollama"

	"github.com/joho/godotenv"
)

const defaultOllamaModel = "gemma:2b"

// ollamaEnv resolves the local server address and model, skipping the caller
// when no server is configured.
func ollamaEnv(t *testing.T) (string, string) {
	t.Helper()

	godotenv.Load("../../.env")

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultOllamaModel
	}
	return baseURL, model
}

// TestOllamaConnection verifies Ollama is running and accessible
func TestOllamaConnection(t *testing.T) {
	baseURL, _ := ollamaEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Simple ping to Ollama
	req, err := http.NewRequestWithContext(ctx, "GET", baseURL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("Ollama not running at %s: %v", baseURL, err)
	}
	defer res.Body.Close()

	t.Logf("✅ Ollama is running at %s (status: %d)", baseURL, res.StatusCode)
}

// TestOllamaProviderSimpleResponse tests basic chat response
func TestOllamaProviderSimpleResponse(t *testing.T) {
	baseURL, model := ollamaEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, model)

	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "Hello! Say 'Ollama works!' in one sentence."},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	t.Logf("✅ Response: %s", response)

	if response == "" {
		t.Error("Response should not be empty")
	}
}

// TestOllamaProviderMultiTurnConversation tests context retention
func TestOllamaProviderMultiTurnConversation(t *testing.T) {
	baseURL, model := ollamaEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, model)

	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "My name is John"},
		{Role: "assistant", Content: "Nice to meet you, John!"},
		{Role: "user", Content: "What is my name?"},
	})
	if err != nil {
		t.Fatalf("Multi-turn conversation failed: %v", err)
	}

	t.Logf("✅ Response: %s", response)

	if !strings.Contains(response, "John") {
		t.Logf("⚠️ Response may not correctly remember the name. Response: %s", response)
	}
}

// TestOllamaProviderOptions tests temperature and token cap plumbing
func TestOllamaProviderOptions(t *testing.T) {
	baseURL, model := ollamaEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, model)

	response, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Answer in a single short sentence."},
		{Role: "user", Content: "What is a deductible?"},
	}, llm.WithTemperature(0.1), llm.WithMaxTokens(60))
	if err != nil {
		t.Fatalf("Chat with options failed: %v", err)
	}

	t.Logf("✅ Response: %s", response)

	if response == "" {
		t.Error("Response should not be empty")
	}
}
