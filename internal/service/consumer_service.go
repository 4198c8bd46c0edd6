package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/dto"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/unitofwork"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/events"
	pktNats "github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/nats"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing document embedding for DocumentId: %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	log.Printf("[INFO] Generating embeddings for document %s (content length: %d)", payload.DocumentId, len(document.Content))

	// ChunkSize: 1500 chars (approx 375 tokens) - Ultra safe for context limits
	// Overlap: 200 chars
	chunks := utils.SplitText(document.Content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	// All keys of a batch share one stamp. The "<name>_<unix>_chunk_<nnnn>"
	// format is what the chunk-key parser expects when recovering document
	// names and page ordinals.
	batchStamp := time.Now().Unix()
	keyPrefix := strings.ReplaceAll(strings.TrimSpace(document.Name), " ", "_")

	var newChunks []*entity.DocumentChunk

	for i, chunkText := range chunks {
		res, err := cs.embeddingProvider.Generate(chunkText, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}
		if len(res.Embedding.Values) != embedding.Dimensions {
			// A width mismatch is a model misconfiguration, not a transient
			// fault; redelivery keeps it visible until the config is fixed.
			log.Printf("[ERROR] Embedding width %d does not match column width %d (document %s)", len(res.Embedding.Values), embedding.Dimensions, payload.DocumentId)
			msg.Nack()
			return
		}

		chunkKey := fmt.Sprintf("%s_%d_chunk_%04d", keyPrefix, batchStamp, i)
		section, subsection := parser.ExtractSectionInfo(chunkText)

		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			ChunkKey:       chunkKey,
			Text:           chunkText,
			Page:           parser.ParsePageNumber(chunkKey, chunkText),
			Section:        section,
			Subsection:     subsection,
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     document.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	log.Printf("[INFO] Deleting old chunks for document %s", payload.DocumentId)
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Creating %d new chunks for document %s", len(newChunks), payload.DocumentId)
	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			log.Printf("[ERROR] Failed to create bulk chunks: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeDocumentIngested,
			Data: map[string]interface{}{
				"document_id":   document.Id,
				"document_name": document.Name,
				"chunk_count":   len(newChunks),
			},
			OccurredAt: time.Now(),
		}
		// We log error but don't fail processing as the event is auxiliary
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_INGESTED event: %v\n", err)
		}
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for DocumentId: %s", len(newChunks), payload.DocumentId)
	msg.Ack()
}
