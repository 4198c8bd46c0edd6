package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/dto"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/contract"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/unitofwork"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type ingestChunkRepo struct {
	contract.DocumentChunkRepository
	bulk       []*entity.DocumentChunk
	deletedFor []uuid.UUID
}

func (f *ingestChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	f.bulk = append(f.bulk, chunks...)
	return nil
}

func (f *ingestChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	f.deletedFor = append(f.deletedFor, documentId)
	return nil
}

type ingestUow struct {
	unitofwork.UnitOfWork
	docs      *memDocumentRepo
	chunks    *ingestChunkRepo
	began     bool
	committed bool
}

func (u *ingestUow) Begin(ctx context.Context) error { u.began = true; return nil }
func (u *ingestUow) Commit() error                   { u.committed = true; return nil }
func (u *ingestUow) Rollback() error                 { return nil }

func (u *ingestUow) PolicyDocumentRepository() contract.PolicyDocumentRepository { return u.docs }
func (u *ingestUow) DocumentChunkRepository() contract.DocumentChunkRepository   { return u.chunks }

type ingestFactory struct {
	uow *ingestUow
}

func (f *ingestFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type failingEmbedder struct{}

func (failingEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return nil, errors.New("embedding backend unavailable")
}

func embedMessage(t *testing.T, id uuid.UUID) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: id})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload)
}

func assertAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("expected message to be acked")
	}
}

func assertNacked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Nacked():
	default:
		t.Fatal("expected message to be nacked")
	}
}

func TestConsumerIngestsDocument(t *testing.T) {
	content := strings.Repeat("Dwelling coverage applies to the residence premises shown in the declarations. ", 30)
	doc := &entity.PolicyDocument{
		Id:        uuid.New(),
		Name:      "Sunrise Home Policy",
		Content:   content,
		CreatedAt: time.Now(),
	}

	uow := &ingestUow{
		docs:   &memDocumentRepo{rows: []*entity.PolicyDocument{doc}},
		chunks: &ingestChunkRepo{},
	}
	cs := &consumerService{
		topicName:         "embed.document",
		uowFactory:        &ingestFactory{uow: uow},
		embeddingProvider: &stubEmbedder{},
	}

	msg := embedMessage(t, doc.Id)
	cs.processMessage(context.Background(), msg)
	assertAcked(t, msg)

	if !uow.began || !uow.committed {
		t.Fatalf("expected transactional write, began=%v committed=%v", uow.began, uow.committed)
	}
	if len(uow.chunks.deletedFor) != 1 || uow.chunks.deletedFor[0] != doc.Id {
		t.Fatalf("old chunks not cleared: %v", uow.chunks.deletedFor)
	}
	if len(uow.chunks.bulk) < 2 {
		t.Fatalf("expected content to split into multiple chunks, got %d", len(uow.chunks.bulk))
	}

	keyPattern := regexp.MustCompile(`^Sunrise_Home_Policy_\d{10,}_chunk_\d{4}$`)
	for i, chunk := range uow.chunks.bulk {
		if !keyPattern.MatchString(chunk.ChunkKey) {
			t.Fatalf("chunk key %q does not match the expected format", chunk.ChunkKey)
		}
		if chunk.ChunkIndex != i {
			t.Fatalf("chunk %d has index %d", i, chunk.ChunkIndex)
		}
		if chunk.DocumentId != doc.Id {
			t.Fatalf("chunk %d points at document %s", i, chunk.DocumentId)
		}
		if len(chunk.EmbeddingValue) == 0 {
			t.Fatalf("chunk %d has no embedding", i)
		}
		if chunk.Page == "" {
			t.Fatalf("chunk %d has no page", i)
		}
	}
}

func TestConsumerAcksMissingDocument(t *testing.T) {
	uow := &ingestUow{docs: &memDocumentRepo{}, chunks: &ingestChunkRepo{}}
	cs := &consumerService{
		topicName:         "embed.document",
		uowFactory:        &ingestFactory{uow: uow},
		embeddingProvider: &stubEmbedder{},
	}

	msg := embedMessage(t, uuid.New())
	cs.processMessage(context.Background(), msg)

	assertAcked(t, msg)
	if uow.began {
		t.Fatal("no transaction should start for a missing document")
	}
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	cs := &consumerService{topicName: "embed.document"}

	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	cs.processMessage(context.Background(), msg)

	assertAcked(t, msg)
}

func TestConsumerNacksOnEmbedFailure(t *testing.T) {
	doc := &entity.PolicyDocument{
		Id:        uuid.New(),
		Name:      "Sunrise Home Policy",
		Content:   "Coverage details.",
		CreatedAt: time.Now(),
	}
	uow := &ingestUow{
		docs:   &memDocumentRepo{rows: []*entity.PolicyDocument{doc}},
		chunks: &ingestChunkRepo{},
	}
	cs := &consumerService{
		topicName:         "embed.document",
		uowFactory:        &ingestFactory{uow: uow},
		embeddingProvider: failingEmbedder{},
	}

	msg := embedMessage(t, doc.Id)
	cs.processMessage(context.Background(), msg)

	assertNacked(t, msg)
	if uow.began {
		t.Fatal("no transaction should start when embedding fails")
	}
}
