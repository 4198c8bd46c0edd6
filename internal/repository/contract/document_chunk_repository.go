package contract

import (
	"context"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar runs a cosine nearest-neighbor scan and hydrates
	// DocumentName from the owning document.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.DocumentChunk, error)
}
