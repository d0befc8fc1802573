package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/realtime"
	"github.com/arjundev29/campuskaam_backend/internal/services/jobs"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

type ReviewHandler struct {
	DB  *gorm.DB
	Svc *jobs.Service
	Hub *realtime.Hub
	Log zerolog.Logger
}

func NewReviewHandler(db *gorm.DB, svc *jobs.Service, hub *realtime.Hub, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{DB: db, Svc: svc, Hub: hub, Log: log}
}

type SubmitReviewReq struct {
	Rating int      `json:"rating"`
	Text   string   `json:"text"`
	Tags   []string `json:"tags"`
}

// Submit records the customer's review for a job. One review per job. In the
// same transaction the job is forced to COMPLETED and the provider's
// aggregate rating and review count are recomputed.
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job ID")
	}

	var req SubmitReviewReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	if req.Rating < 1 || req.Rating > 5 {
		errs.Add("rating", "Rating must be between 1 and 5")
	}
	if req.Text == "" {
		errs.Add("text", "Please write a review")
	}
	for _, tag := range req.Tags {
		if !models.ValidReviewTag(tag) {
			errs.Add("tags", "Unknown tag: "+tag)
			break
		}
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Job not found")
	}
	if job.CustomerID != userID {
		return fail(c, fiber.StatusForbidden, "Only the customer can review this job")
	}
	if job.ProviderID == nil {
		return fail(c, fiber.StatusConflict, "Job has no provider to review")
	}

	var customer models.User
	if err := h.DB.First(&customer, "id = ?", userID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	review := models.Review{
		JobID:        jobID,
		ProviderID:   *job.ProviderID,
		CustomerID:   userID,
		Rating:       req.Rating,
		Text:         req.Text,
		Tags:         utils.ToJSONList(req.Tags),
		CustomerName: customer.Name,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		if err := tx.First(&existing, "job_id = ?", jobID).Error; err == nil {
			return errDuplicateReview
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		if err := h.Svc.CompleteViaReview(tx, jobID); err != nil {
			return err
		}

		return recomputeProviderRating(tx, *job.ProviderID, req.Rating)
	})
	if err != nil {
		if errors.Is(err, errDuplicateReview) {
			return fail(c, fiber.StatusConflict, "This job already has a review")
		}
		h.Log.Error().Err(err).Msg("submit review")
		return fail(c, fiber.StatusInternalServerError, "Failed to submit review")
	}

	h.Hub.SendToJob(job.CustomerID, job.ProviderID, fiber.Map{
		"type":   "job_update",
		"job_id": jobID,
		"status": models.JobCompleted,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review submitted successfully!",
		"data":    review,
	})
}

var errDuplicateReview = errors.New("duplicate review")

// recomputeProviderRating folds a new rating into the provider's stored
// aggregate.
func recomputeProviderRating(tx *gorm.DB, providerID uuid.UUID, rating int) error {
	var provider models.User
	if err := tx.First(&provider, "id = ?", providerID).Error; err != nil {
		return err
	}

	total := provider.TotalReviews
	newAvg := (provider.Rating*float64(total) + float64(rating)) / float64(total+1)

	return tx.Model(&models.User{}).
		Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"rating":        newAvg,
			"total_reviews": total + 1,
		}).Error
}

// ListForProvider returns all reviews of one provider, newest first.
func (h *ReviewHandler) ListForProvider(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid provider ID")
	}

	var reviews []models.Review
	if err := h.DB.
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		h.Log.Error().Err(err).Msg("list reviews")
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch reviews")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
	})
}
