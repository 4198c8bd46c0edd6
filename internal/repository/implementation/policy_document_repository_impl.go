package implementation

import (
	"context"
	"errors"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/mapper"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/model"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/contract"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PolicyDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyDocumentMapper
}

func NewPolicyDocumentRepository(db *gorm.DB) contract.PolicyDocumentRepository {
	return &PolicyDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyDocumentMapper(),
	}
}

func (r *PolicyDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyDocumentRepositoryImpl) Create(ctx context.Context, document *entity.PolicyDocument) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyDocumentRepositoryImpl) Update(ctx context.Context, document *entity.PolicyDocument) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PolicyDocument{}, id).Error
}

func (r *PolicyDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error) {
	var m model.PolicyDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PolicyDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error) {
	var models []*model.PolicyDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PolicyDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.PolicyDocument{}).Count(&count).Error
	return count, err
}
