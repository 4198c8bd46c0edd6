package contract

import (
	"context"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"

	"github.com/google/uuid"
)

type PolicyDocumentRepository interface {
	Create(ctx context.Context, document *entity.PolicyDocument) error
	Update(ctx context.Context, document *entity.PolicyDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
