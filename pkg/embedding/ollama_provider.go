package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaProvider embeds through a local Ollama server. The default model,
// nomic-embed-text, matches the 768-wide chunk column.
type OllamaProvider struct {
	BaseURL string
	Model   string
}

func NewOllamaProvider(baseURL string, model string) EmbeddingProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{BaseURL: baseURL, Model: model}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Generate ignores the task hint; nomic-embed-text has no query/document
// mode. Ollama embeddings come back unnormalized and are scaled to unit
// length here.
func (p *OllamaProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	body, err := json.Marshal(ollamaRequest{Model: p.Model, Prompt: text})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/embeddings", p.BaseURL)
	resp, err := httpClient.Post(endpoint, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	resBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embedding error: %s", string(resBytes))
	}

	var ollamaRes ollamaResponse
	if err := json.Unmarshal(resBytes, &ollamaRes); err != nil {
		return nil, err
	}

	values := make([]float32, len(ollamaRes.Embedding))
	for i, v := range ollamaRes.Embedding {
		values[i] = float32(v)
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(values),
		},
	}, nil
}
