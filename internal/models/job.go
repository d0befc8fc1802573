package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobRequested    JobStatus = "REQUESTED"
	JobQuoted       JobStatus = "QUOTED"
	JobConfirmed    JobStatus = "CONFIRMED"
	JobInProgress   JobStatus = "IN_PROGRESS"
	JobReadyForMeet JobStatus = "READY_FOR_MEET"
	JobDelivered    JobStatus = "DELIVERED"
	JobCompleted    JobStatus = "COMPLETED"
)

// WorkTypes is the fixed set of work categories a customer can request.
var WorkTypes = []string{"Diagrams", "Lab Records", "Assignments", "Notes", "Charts", "Project Formatting"}

func ValidWorkType(t string) bool {
	for _, wt := range WorkTypes {
		if wt == t {
			return true
		}
	}
	return false
}

type Job struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"customer_id"`
	ProviderID *uuid.UUID `gorm:"type:uuid;index" json:"provider_id,omitempty"`

	WorkType    string         `gorm:"type:varchar(50);not null" json:"work_type"`
	Subject     string         `gorm:"type:varchar(120);not null" json:"subject"`
	Description string         `gorm:"type:text" json:"description"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Deadline    time.Time      `json:"deadline"`
	Budget      *float64       `json:"budget,omitempty"`
	Attachments datatypes.JSON `json:"attachments,omitempty"`

	Status JobStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Latest quote. A re-quote overwrites, no history is kept.
	QuotePrice          *float64   `json:"quote_price,omitempty"`
	QuoteDeliveryDate   *time.Time `json:"quote_delivery_date,omitempty"`
	QuoteMeetupLocation string     `gorm:"type:varchar(200)" json:"quote_meetup_location,omitempty"`
	QuoteMessage        string     `gorm:"type:text" json:"quote_message,omitempty"`

	// Denormalized display copies, not source of truth.
	CustomerName  string `gorm:"type:varchar(120)" json:"customer_name"`
	ProviderName  string `gorm:"type:varchar(120)" json:"provider_name,omitempty"`
	ProviderPhoto string `gorm:"type:text" json:"provider_photo,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Provider *User `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

// Quote is the value object a provider attaches when quoting a job.
type Quote struct {
	Price          float64   `json:"price"`
	DeliveryDate   time.Time `json:"delivery_date"`
	MeetupLocation string    `json:"meetup_location"`
	Message        string    `json:"message,omitempty"`
}

// HasQuote reports whether a quote is currently attached.
func (j *Job) HasQuote() bool {
	return j.QuotePrice != nil
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}
