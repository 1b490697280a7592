package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

type Evaluation struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID     uuid.UUID        `gorm:"type:uuid;not null" json:"resume_id"`
	JobID        uuid.UUID        `gorm:"type:uuid;not null" json:"job_id"`
	Status       EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	Score        *float64         `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	Verdict      *string          `gorm:"type:text" json:"verdict,omitempty"`
	Details      *string          `gorm:"type:text" json:"details,omitempty"`
	ErrorMessage *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Resume Resume `gorm:"foreignKey:ResumeID" json:"-"`
	Job    Job    `gorm:"foreignKey:JobID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
