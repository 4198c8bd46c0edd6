package mapper

import (
	"encoding/json"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/model"

	"gorm.io/datatypes"
)

type InteractionLogMapper struct{}

func NewInteractionLogMapper() *InteractionLogMapper {
	return &InteractionLogMapper{}
}

func (m *InteractionLogMapper) ToEntity(l *model.InteractionLog) *entity.InteractionLog {
	if l == nil {
		return nil
	}

	var references []string
	if len(l.References) > 0 {
		// Malformed rows read back as an empty reference list
		_ = json.Unmarshal(l.References, &references)
	}

	return &entity.InteractionLog{
		Id:         l.Id,
		SessionId:  l.SessionId,
		Query:      l.Query,
		Answer:     l.Answer,
		QueryType:  l.QueryType,
		References: references,
		CreatedAt:  l.CreatedAt,
	}
}

func (m *InteractionLogMapper) ToModel(l *entity.InteractionLog) *model.InteractionLog {
	if l == nil {
		return nil
	}

	references := l.References
	if references == nil {
		references = []string{}
	}
	raw, err := json.Marshal(references)
	if err != nil {
		raw = []byte("[]")
	}

	return &model.InteractionLog{
		Id:         l.Id,
		SessionId:  l.SessionId,
		Query:      l.Query,
		Answer:     l.Answer,
		QueryType:  l.QueryType,
		References: datatypes.JSON(raw),
		CreatedAt:  l.CreatedAt,
	}
}

func (m *InteractionLogMapper) ToEntities(logs []*model.InteractionLog) []*entity.InteractionLog {
	entities := make([]*entity.InteractionLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
