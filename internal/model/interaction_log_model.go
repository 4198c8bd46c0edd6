package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InteractionLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  string         `gorm:"type:varchar(128);not null;index"`
	Query      string         `gorm:"type:text"`
	Answer     string         `gorm:"type:text"`
	QueryType  string         `gorm:"type:varchar(64);index"`
	References datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (InteractionLog) TableName() string {
	return "interaction_logs"
}
