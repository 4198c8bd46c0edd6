package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/dto"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	List(ctx context.Context) ([]*dto.ShowDocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteDocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// Create upserts by name: re-uploading a document replaces its content and
// queues it for re-ingestion.
func (c *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.PolicyDocumentRepository().FindOne(ctx,
		specification.ByDocumentName{Name: req.Name},
	)
	if err != nil {
		return nil, err
	}

	if document == nil {
		document = &entity.PolicyDocument{
			Id:        uuid.New(),
			Name:      req.Name,
			Content:   req.Content,
			CreatedAt: time.Now(),
		}
		if err := uow.PolicyDocumentRepository().Create(ctx, document); err != nil {
			return nil, err
		}
	} else {
		now := time.Now()
		document.Content = req.Content
		document.UpdatedAt = &now
		if err := uow.PolicyDocumentRepository().Update(ctx, document); err != nil {
			return nil, err
		}
	}

	msgPayload := dto.PublishEmbedDocumentMessage{
		DocumentId: document.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	err = c.publisherService.Publish(ctx, msgJson)
	if err != nil {
		return nil, err
	}

	return &dto.CreateDocumentResponse{
		Id: document.Id,
	}, nil
}

func (c *documentService) List(ctx context.Context) ([]*dto.ShowDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.PolicyDocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ShowDocumentResponse, 0, len(documents))
	for _, document := range documents {
		chunkCount, err := uow.DocumentChunkRepository().Count(ctx,
			specification.ByDocumentID{DocumentID: document.Id},
		)
		if err != nil {
			return nil, err
		}

		responses = append(responses, &dto.ShowDocumentResponse{
			Id:         document.Id,
			Name:       document.Name,
			ChunkCount: chunkCount,
			CreatedAt:  document.CreatedAt,
			UpdatedAt:  document.UpdatedAt,
		})
	}

	return responses, nil
}

func (c *documentService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteDocumentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.PolicyDocumentRepository().Delete(ctx, id); err != nil {
		return nil, err
	}

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.DeleteDocumentResponse{
		Id: document.Id,
	}, nil
}
