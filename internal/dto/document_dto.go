package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

// ShowDocumentResponse lists a document without its content body.
// ChunkCount doubles as the ingestion status: zero means the embed
// consumer has not processed the document yet.
type ShowDocumentResponse struct {
	Id         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	ChunkCount int64      `json:"chunk_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type DeleteDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

// PublishEmbedDocumentMessage is the watermill payload handed from the
// document service to the embed consumer.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
