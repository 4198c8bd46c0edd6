package contract

import (
	"context"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"
)

type InteractionLogRepository interface {
	Create(ctx context.Context, log *entity.InteractionLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InteractionLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
