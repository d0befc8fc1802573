package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewTags is the fixed vocabulary customers can pick from.
var ReviewTags = []string{"On Time", "Neat Work", "Quality Work", "Friendly", "Professional", "Fast Response"}

func ValidReviewTag(t string) bool {
	for _, rt := range ReviewTags {
		if rt == t {
			return true
		}
	}
	return false
}

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"job_id"`
	ProviderID uuid.UUID `gorm:"type:uuid;index;not null" json:"provider_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`

	Rating int            `gorm:"not null" json:"rating"` // 1-5
	Text   string         `gorm:"type:text" json:"text"`
	Tags   datatypes.JSON `json:"tags,omitempty"`

	CustomerName string `gorm:"type:varchar(120)" json:"customer_name"`

	CreatedAt time.Time `json:"created_at"`

	Job      *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Provider *User `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
