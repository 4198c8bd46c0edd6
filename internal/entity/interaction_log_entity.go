package entity

import (
	"time"

	"github.com/google/uuid"
)

type InteractionLog struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId  string
	Query      string
	Answer     string
	QueryType  string
	References []string
	CreatedAt  time.Time
}
