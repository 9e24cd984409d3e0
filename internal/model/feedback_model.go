package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Feedback struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResponseId uuid.UUID      `gorm:"type:uuid;index;not null"`
	Rating     int            `gorm:"not null"`
	Comment    string         `gorm:"type:text"`
	Context    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (Feedback) TableName() string {
	return "feedbacks"
}
