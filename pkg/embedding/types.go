package embedding

import (
	"math"
	"net/http"
	"time"
)

// EmbeddingResponse mirrors the Gemini embedContent reply. The other
// providers translate their replies into it so callers see one shape.
type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

// Embedding calls run inside chat turns and ingestion batches; the shared
// client bounds how long either can stall on a dead upstream.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// normalizeVector scales vec to unit length. pgvector's cosine distance
// assumes unit vectors, so models that return raw magnitudes go through
// this before storage or search.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
