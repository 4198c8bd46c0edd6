package unitofwork

import (
	"context"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PolicyDocumentRepository() contract.PolicyDocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	InteractionLogRepository() contract.InteractionLogRepository
}
