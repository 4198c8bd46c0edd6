package entity

import (
	"time"

	"github.com/google/uuid"
)

type PolicyDocument struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
