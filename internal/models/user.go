package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// ProviderRole is the service specialty a provider offers.
type ProviderRole string

const (
	ProviderWriter ProviderRole = "Writer"
	ProviderArtist ProviderRole = "Artist"
)

// ProviderStatus is the admin-controlled trust state of a provider record.
type ProviderStatus string

const (
	ProviderPending  ProviderStatus = "PENDING_VERIFICATION"
	ProviderVerified ProviderStatus = "VERIFIED"
	ProviderRejected ProviderStatus = "REJECTED"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Phone string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Role  Role      `gorm:"type:varchar(20);not null;index" json:"role"`

	Name  string `json:"name"`
	Email string `gorm:"type:varchar(150)" json:"email,omitempty"`
	City  string `gorm:"type:varchar(120)" json:"city,omitempty"`
	Area  string `gorm:"type:varchar(120)" json:"area,omitempty"`

	ProfileComplete bool `gorm:"default:false" json:"profile_complete"`

	// Provider-only fields, empty for customers and admins.
	Profession    string         `gorm:"type:varchar(80)" json:"profession,omitempty"`
	InstituteName string         `gorm:"type:varchar(150)" json:"institute_name,omitempty"`
	Course        string         `gorm:"type:varchar(150)" json:"course,omitempty"`
	ProviderRole  ProviderRole   `gorm:"type:varchar(20);index" json:"provider_role,omitempty"`
	Expertise     datatypes.JSON `json:"expertise,omitempty"` // ["Diagrams", "Notes", ...]
	StartingPrice float64        `json:"starting_price,omitempty"`
	Bio           string         `gorm:"type:text" json:"bio,omitempty"`
	Samples       datatypes.JSON `json:"samples,omitempty"` // sample image URLs

	Status       ProviderStatus `gorm:"type:varchar(30);index" json:"status,omitempty"`
	Rating       float64        `gorm:"default:0" json:"rating"`
	TotalReviews int            `gorm:"default:0" json:"total_reviews"`

	// Display-only coordinates. Discovery never sorts or filters on these.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Verified is derived from Status so the two can never disagree.
func (u *User) Verified() bool {
	return u.Status == ProviderVerified
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
