package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	JDText    string    `gorm:"column:jd_text;type:text" json:"jd_text"`
	Location  string    `gorm:"type:text" json:"location"`
	FilePath  string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}
