// internal/storage/models/verdict.go
package models

import "time"

// BaseModel replaces gorm.Model for explicit control over timestamps.
type BaseModel struct {
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	DeletedAt *time.Time `gorm:"index"`
}

// VerdictRecord is one persisted verdict: the request inputs and the
// headline outputs, with the full verdict kept as JSON for replay.
type VerdictRecord struct {
	BaseModel
	ID string `gorm:"primarykey;type:uuid"`

	ListPrice       float64 `gorm:"not null"`
	PrimaryStrategy string  `gorm:"index"`
	Score           float64
	Grade           string `gorm:"index"`
	BreakevenPrice  float64
	TargetBuyPrice  float64
	Partial         bool

	RequestJSON string `gorm:"type:jsonb"`
	VerdictJSON string `gorm:"type:jsonb"`

	EngineVersion string `gorm:"index"`
}

func (VerdictRecord) TableName() string { return "verdicts" }
