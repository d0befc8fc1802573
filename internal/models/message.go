package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageKind string

const (
	MessageUser   MessageKind = "user"
	MessageSystem MessageKind = "system"
)

// SystemSender is the sender id used for lifecycle-generated messages.
const SystemSender = "system"

// Message is one chat entry scoped to a job. Append-only.
type Message struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID uuid.UUID `gorm:"type:uuid;index;not null" json:"job_id"`

	// Either a user uuid or SystemSender.
	SenderID string `gorm:"type:varchar(40);not null" json:"sender_id"`

	Text  string      `gorm:"type:text" json:"text,omitempty"`
	Image string      `gorm:"type:text" json:"image,omitempty"`
	Kind  MessageKind `gorm:"type:varchar(10);not null;default:'user'" json:"kind"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
