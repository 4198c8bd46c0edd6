package embedding

// Task hints for models that embed queries and documents differently.
// Providers without the distinction ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Dimensions is the width of the chunk embedding column. All configured
// models (text-embedding-004, nomic-embed-text, jina-embeddings-v2-base-en)
// emit vectors this wide.
const Dimensions = 768

// EmbeddingProvider turns text into a vector ready for pgvector cosine
// search.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
