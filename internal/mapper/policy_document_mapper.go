package mapper

import (
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/model"

	"gorm.io/gorm"
)

type PolicyDocumentMapper struct{}

func NewPolicyDocumentMapper() *PolicyDocumentMapper {
	return &PolicyDocumentMapper{}
}

func (m *PolicyDocumentMapper) ToEntity(d *model.PolicyDocument) *entity.PolicyDocument {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.PolicyDocument{
		Id:        d.Id,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *PolicyDocumentMapper) ToModel(d *entity.PolicyDocument) *model.PolicyDocument {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.PolicyDocument{
		Id:        d.Id,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *PolicyDocumentMapper) ToEntities(documents []*model.PolicyDocument) []*entity.PolicyDocument {
	entities := make([]*entity.PolicyDocument, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
