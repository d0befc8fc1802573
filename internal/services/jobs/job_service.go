package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrQuoteRequired     = errors.New("job has no quote attached")
	ErrNotYourJob        = errors.New("job belongs to another provider")
)

// transitions lists the legal next states per current state. COMPLETED is
// absent as a source: it is absorbing. It is also absent as a target here
// because the only path into it is CompleteViaReview, which bypasses the
// table on purpose.
var transitions = map[models.JobStatus][]models.JobStatus{
	models.JobRequested:    {models.JobQuoted},
	models.JobQuoted:       {models.JobQuoted, models.JobConfirmed, models.JobRequested},
	models.JobConfirmed:    {models.JobInProgress},
	models.JobInProgress:   {models.JobReadyForMeet},
	models.JobReadyForMeet: {models.JobDelivered},
	models.JobDelivered:    {},
}

func canTransition(from, to models.JobStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transitionErr(from, to models.JobStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Service owns the job collection and its lifecycle. Every mutation is a
// single transaction so a failed call leaves the store unchanged.
type Service struct {
	DB *gorm.DB

	// Whether rejecting a quote wipes the quote fields along with the
	// revert to REQUESTED. Off by default: the record keeps the last
	// quote for display, matching the product behavior.
	ClearQuoteOnRevert bool
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type CreateInput struct {
	WorkType    string
	Subject     string
	Description string
	Quantity    int
	Deadline    time.Time
	Budget      *float64
	Attachments datatypes.JSON
	ProviderID  *uuid.UUID
}

func (in CreateInput) validate() error {
	if !models.ValidWorkType(in.WorkType) {
		return fmt.Errorf("unknown work type %q", in.WorkType)
	}
	if in.Subject == "" {
		return errors.New("subject is required")
	}
	if in.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if in.Deadline.IsZero() {
		return errors.New("deadline is required")
	}
	if in.Budget != nil && *in.Budget <= 0 {
		return errors.New("budget must be positive")
	}
	return nil
}

// Create opens a new job in REQUESTED for the given customer. An
// authenticated customer is a precondition, so customer is taken as a loaded
// record, not an id.
func (s *Service) Create(customer *models.User, in CreateInput) (*models.Job, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	job := models.Job{
		CustomerID:   customer.ID,
		WorkType:     in.WorkType,
		Subject:      in.Subject,
		Description:  in.Description,
		Quantity:     in.Quantity,
		Deadline:     in.Deadline,
		Budget:       in.Budget,
		Attachments:  in.Attachments,
		Status:       models.JobRequested,
		CustomerName: customer.Name,
	}

	if in.ProviderID != nil {
		var provider models.User
		if err := s.DB.First(&provider, "id = ? AND role = ?", in.ProviderID, models.RoleProvider).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("provider not found")
			}
			return nil, err
		}
		job.ProviderID = in.ProviderID
		denormalizeProvider(&job, &provider)
	}

	if err := s.DB.Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Get loads one job.
func (s *Service) Get(jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.DB.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// AttachQuote moves a job to QUOTED and stores the quote, overwriting any
// earlier one. Legal from REQUESTED and from QUOTED (re-quote). The quoting
// provider claims an unassigned job; an assigned job only accepts quotes
// from its own provider. Appends a system message with price and delivery
// date.
func (s *Service) AttachQuote(jobID uuid.UUID, provider *models.User, q models.Quote) (*models.Job, error) {
	if q.Price <= 0 {
		return nil, errors.New("quote price must be positive")
	}
	if q.MeetupLocation == "" {
		return nil, errors.New("meetup location is required")
	}
	if q.DeliveryDate.IsZero() {
		return nil, errors.New("delivery date is required")
	}

	job, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if !canTransition(job.Status, models.JobQuoted) {
		return nil, transitionErr(job.Status, models.JobQuoted)
	}
	if job.ProviderID != nil && *job.ProviderID != provider.ID {
		return nil, ErrNotYourJob
	}

	job.Status = models.JobQuoted
	job.QuotePrice = &q.Price
	job.QuoteDeliveryDate = &q.DeliveryDate
	job.QuoteMeetupLocation = q.MeetupLocation
	job.QuoteMessage = q.Message
	if job.ProviderID == nil {
		job.ProviderID = &provider.ID
	}
	denormalizeProvider(job, provider)

	text := fmt.Sprintf("Quote sent: ₹%g - Delivery: %s", q.Price, q.DeliveryDate.Format("02 Jan 2006"))
	if err := s.saveWithSystemMessage(job, text); err != nil {
		return nil, err
	}
	return job, nil
}

// Confirm moves a QUOTED job with a quote attached to CONFIRMED and appends
// the confirmation system message.
func (s *Service) Confirm(jobID uuid.UUID) (*models.Job, error) {
	job, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if !canTransition(job.Status, models.JobConfirmed) {
		return nil, transitionErr(job.Status, models.JobConfirmed)
	}
	if !job.HasQuote() {
		return nil, ErrQuoteRequired
	}

	job.Status = models.JobConfirmed
	if err := s.saveWithSystemMessage(job, "Deal confirmed! Work will begin soon."); err != nil {
		return nil, err
	}
	return job, nil
}

// Advance performs one forward work step:
// CONFIRMED -> IN_PROGRESS -> READY_FOR_MEET -> DELIVERED.
// These steps emit no system message.
func (s *Service) Advance(jobID uuid.UUID, next models.JobStatus) (*models.Job, error) {
	switch next {
	case models.JobInProgress, models.JobReadyForMeet, models.JobDelivered:
	default:
		return nil, transitionErr("", next)
	}

	job, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if !canTransition(job.Status, next) {
		return nil, transitionErr(job.Status, next)
	}

	job.Status = next
	if err := s.DB.Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// RejectQuote reverts a QUOTED job to REQUESTED. The quote stays on the
// record unless ClearQuoteOnRevert is set. No system message.
func (s *Service) RejectQuote(jobID uuid.UUID) (*models.Job, error) {
	job, err := s.Get(jobID)
	if err != nil {
		return nil, err
	}
	if !canTransition(job.Status, models.JobRequested) {
		return nil, transitionErr(job.Status, models.JobRequested)
	}

	job.Status = models.JobRequested
	if s.ClearQuoteOnRevert {
		job.QuotePrice = nil
		job.QuoteDeliveryDate = nil
		job.QuoteMeetupLocation = ""
		job.QuoteMessage = ""
	}
	if err := s.DB.Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// CompleteViaReview forces a job to COMPLETED. Only review submission calls
// this, inside the review transaction; it is the single path into COMPLETED.
func (s *Service) CompleteViaReview(tx *gorm.DB, jobID uuid.UUID) error {
	result := tx.Model(&models.Job{}).
		Where("id = ?", jobID).
		Update("status", models.JobCompleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *Service) saveWithSystemMessage(job *models.Job, text string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(job).Error; err != nil {
			return err
		}
		msg := models.Message{
			JobID:    job.ID,
			SenderID: models.SystemSender,
			Text:     text,
			Kind:     models.MessageSystem,
		}
		return tx.Create(&msg).Error
	})
}

func denormalizeProvider(job *models.Job, provider *models.User) {
	job.ProviderName = provider.Name
	if photo := firstSample(provider); photo != "" {
		job.ProviderPhoto = photo
	}
}

func firstSample(provider *models.User) string {
	if provider.Samples == nil {
		return ""
	}
	var samples []string
	if err := json.Unmarshal(provider.Samples, &samples); err != nil || len(samples) == 0 {
		return ""
	}
	return samples[0]
}
