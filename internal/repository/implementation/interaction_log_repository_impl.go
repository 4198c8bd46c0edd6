package implementation

import (
	"context"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/entity"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/mapper"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/model"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/contract"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/internal/repository/specification"

	"gorm.io/gorm"
)

type InteractionLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InteractionLogMapper
}

func NewInteractionLogRepository(db *gorm.DB) contract.InteractionLogRepository {
	return &InteractionLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewInteractionLogMapper(),
	}
}

func (r *InteractionLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InteractionLogRepositoryImpl) Create(ctx context.Context, log *entity.InteractionLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *InteractionLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InteractionLog, error) {
	var models []*model.InteractionLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *InteractionLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.InteractionLog{}).Count(&count).Error
	return count, err
}
