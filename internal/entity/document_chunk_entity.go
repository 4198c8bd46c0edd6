package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk carries the chunk text inline so retrieval never needs a
// second fetch. DocumentName is hydrated from the owning document on reads
// that join; it is not a column of its own.
type DocumentChunk struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChunkKey       string
	Text           string
	Page           string
	Section        string
	Subsection     string
	EmbeddingValue []float32
	DocumentId     uuid.UUID `gorm:"type:uuid;index"`
	DocumentName   string
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
