package jina

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding"
)

// JinaProvider embeds through the Jina AI API. jina-embeddings-v2-base-en
// returns unit-length 768-wide vectors, so no local normalization pass is
// needed before pgvector storage.
type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey string) *JinaProvider {
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/embeddings",
		model:   "jina-embeddings-v2-base-en",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate ignores the task hint; the v2 models embed queries and documents
// identically. The API takes a batch, so the single text is wrapped.
func (p *JinaProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	body, err := json.Marshal(embeddingRequest{
		Model: p.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	resBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(resBytes))
	}

	var jinaRes embeddingResponse
	if err := json.Unmarshal(resBytes, &jinaRes); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if jinaRes.Error != nil {
		return nil, fmt.Errorf("jina api returned error: %s", jinaRes.Error.Message)
	}
	if len(jinaRes.Data) == 0 {
		return nil, fmt.Errorf("empty embeddings from jina api")
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: jinaRes.Data[0].Embedding,
		},
	}, nil
}
