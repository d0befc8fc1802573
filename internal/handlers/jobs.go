package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/realtime"
	"github.com/arjundev29/campuskaam_backend/internal/services/jobs"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

type JobHandler struct {
	DB  *gorm.DB
	Svc *jobs.Service
	Hub *realtime.Hub
	Log zerolog.Logger
}

func NewJobHandler(db *gorm.DB, svc *jobs.Service, hub *realtime.Hub, log zerolog.Logger) *JobHandler {
	return &JobHandler{DB: db, Svc: svc, Hub: hub, Log: log}
}

// svcError maps lifecycle service errors onto HTTP responses.
func svcError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		return fail(c, fiber.StatusNotFound, "Job not found")
	case errors.Is(err, jobs.ErrInvalidTransition):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, jobs.ErrQuoteRequired):
		return fail(c, fiber.StatusConflict, "Job has no quote to confirm")
	case errors.Is(err, jobs.ErrNotYourJob):
		return fail(c, fiber.StatusForbidden, "Job is assigned to another provider")
	default:
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

type CreateJobReq struct {
	WorkType    string   `json:"work_type"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	Deadline    string   `json:"deadline"`
	Budget      *float64 `json:"budget"`
	Attachments []string `json:"attachments"`
	ProviderID  *string  `json:"provider_id"`
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateJobReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		errs.Add("deadline", "Enter a valid deadline date")
	}
	if !models.ValidWorkType(req.WorkType) {
		errs.Add("work_type", "Choose a valid work type")
	}
	if req.Quantity <= 0 {
		errs.Add("quantity", "Quantity must be at least 1")
	}
	if req.Subject == "" {
		errs.Add("subject", "Subject is required")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var providerID *uuid.UUID
	if req.ProviderID != nil && *req.ProviderID != "" {
		pid, err := uuid.Parse(*req.ProviderID)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid provider ID")
		}
		providerID = &pid
	}

	var customer models.User
	if err := h.DB.First(&customer, "id = ?", userID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	job, err := h.Svc.Create(&customer, jobs.CreateInput{
		WorkType:    req.WorkType,
		Subject:     req.Subject,
		Description: req.Description,
		Quantity:    req.Quantity,
		Deadline:    deadline,
		Budget:      req.Budget,
		Attachments: utils.ToJSONList(req.Attachments),
		ProviderID:  providerID,
	})
	if err != nil {
		return svcError(c, err)
	}

	if job.ProviderID != nil {
		h.Hub.SendToUser(*job.ProviderID, fiber.Map{"type": "new_request", "job": job})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// List returns the jobs visible to the caller: customers see their own,
// providers see their own plus the open request pool, admins see all.
func (h *JobHandler) List(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	q := h.DB.Model(&models.Job{}).Order("created_at DESC")
	switch models.Role(role) {
	case models.RoleCustomer:
		q = q.Where("customer_id = ?", userID)
	case models.RoleProvider:
		q = q.Where("provider_id = ? OR (status = ? AND provider_id IS NULL)", userID, models.JobRequested)
	case models.RoleAdmin:
		// no filter
	default:
		return fail(c, fiber.StatusForbidden, "Unknown role")
	}

	var list []models.Job
	if err := q.Find(&list).Error; err != nil {
		h.Log.Error().Err(err).Msg("list jobs")
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch jobs")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    list,
	})
}

// loadJobForParticipant loads a job and checks the caller is its customer,
// its provider, or an admin.
func (h *JobHandler) loadJobForParticipant(c *fiber.Ctx) (*models.Job, uuid.UUID, error) {
	userID, err := getUserUUID(c)
	if err != nil {
		return nil, uuid.Nil, fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, uuid.Nil, fail(c, fiber.StatusBadRequest, "Invalid job ID")
	}

	job, err := h.Svc.Get(jobID)
	if err != nil {
		return nil, uuid.Nil, svcError(c, err)
	}

	role, _ := c.Locals("role").(string)
	isParticipant := job.CustomerID == userID ||
		(job.ProviderID != nil && *job.ProviderID == userID) ||
		models.Role(role) == models.RoleAdmin
	// Unassigned open requests are visible to any provider browsing the pool.
	if !isParticipant && !(job.ProviderID == nil && models.Role(role) == models.RoleProvider) {
		return nil, uuid.Nil, fail(c, fiber.StatusForbidden, "Access denied")
	}

	return job, userID, nil
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	job, _, errResp := h.loadJobForParticipant(c)
	if job == nil {
		return errResp
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

type QuoteReq struct {
	Price          float64 `json:"price"`
	DeliveryDate   string  `json:"delivery_date"`
	MeetupLocation string  `json:"meetup_location"`
	Message        string  `json:"message"`
}

func (h *JobHandler) Quote(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job ID")
	}

	var req QuoteReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	if req.Price <= 0 {
		errs.Add("price", "Price must be positive")
	}
	if req.MeetupLocation == "" {
		errs.Add("meetup_location", "Meetup location is required")
	}
	deliveryDate, err := parseDate(req.DeliveryDate)
	if err != nil {
		errs.Add("delivery_date", "Enter a valid delivery date")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var provider models.User
	if err := h.DB.First(&provider, "id = ? AND role = ?", userID, models.RoleProvider).Error; err != nil {
		return fail(c, fiber.StatusForbidden, "Only providers can send quotes")
	}

	job, err := h.Svc.AttachQuote(jobID, &provider, models.Quote{
		Price:          req.Price,
		DeliveryDate:   deliveryDate,
		MeetupLocation: req.MeetupLocation,
		Message:        req.Message,
	})
	if err != nil {
		return svcError(c, err)
	}

	h.Hub.SendToJob(job.CustomerID, job.ProviderID, fiber.Map{"type": "job_update", "job": job})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

func (h *JobHandler) Confirm(c *fiber.Ctx) error {
	job, userID, errResp := h.loadJobForParticipant(c)
	if job == nil {
		return errResp
	}
	if job.CustomerID != userID {
		return fail(c, fiber.StatusForbidden, "Only the customer can confirm a quote")
	}

	job, err := h.Svc.Confirm(job.ID)
	if err != nil {
		return svcError(c, err)
	}

	h.Hub.SendToJob(job.CustomerID, job.ProviderID, fiber.Map{"type": "job_update", "job": job})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

func (h *JobHandler) RejectQuote(c *fiber.Ctx) error {
	job, userID, errResp := h.loadJobForParticipant(c)
	if job == nil {
		return errResp
	}
	if job.CustomerID != userID {
		return fail(c, fiber.StatusForbidden, "Only the customer can reject a quote")
	}

	job, err := h.Svc.RejectQuote(job.ID)
	if err != nil {
		return svcError(c, err)
	}

	h.Hub.SendToJob(job.CustomerID, job.ProviderID, fiber.Map{"type": "job_update", "job": job})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus advances work one step:
// CONFIRMED -> IN_PROGRESS -> READY_FOR_MEET -> DELIVERED.
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	job, userID, errResp := h.loadJobForParticipant(c)
	if job == nil {
		return errResp
	}
	if job.ProviderID == nil || *job.ProviderID != userID {
		return fail(c, fiber.StatusForbidden, "Only the assigned provider can advance the job")
	}

	var req UpdateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	job, err := h.Svc.Advance(job.ID, models.JobStatus(req.Status))
	if err != nil {
		return svcError(c, err)
	}

	h.Hub.SendToJob(job.CustomerID, job.ProviderID, fiber.Map{"type": "job_update", "job": job})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}
