package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
)

type ProviderHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewProviderHandler(db *gorm.DB, log zerolog.Logger) *ProviderHandler {
	return &ProviderHandler{DB: db, Log: log}
}

// List is the provider directory. Only providers with a complete profile are
// eligible; the role and verified-only filters apply on top. Ordering is
// verified first, then rating descending. Coordinates in the response are
// display-only and never influence the order.
func (h *ProviderHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.User{}).
		Where("role = ? AND profile_complete = ?", models.RoleProvider, true)

	if role := c.Query("role"); role != "" {
		pr := models.ProviderRole(role)
		if pr != models.ProviderWriter && pr != models.ProviderArtist {
			errs := FieldErrors{}
			errs.Add("role", "Role filter must be Writer or Artist")
			return validationFail(c, errs)
		}
		q = q.Where("provider_role = ?", pr)
	}

	if c.QueryBool("verified_only") {
		q = q.Where("status = ?", models.ProviderVerified)
	}

	var providers []models.User
	if err := q.
		Order("CASE WHEN status = 'VERIFIED' THEN 0 ELSE 1 END, rating DESC").
		Find(&providers).Error; err != nil {
		h.Log.Error().Err(err).Msg("list providers")
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch providers")
	}

	out := make([]fiber.Map, 0, len(providers))
	for i := range providers {
		out = append(out, userResponse(&providers[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

func (h *ProviderHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid provider ID")
	}

	var provider models.User
	if err := h.DB.First(&provider, "id = ? AND role = ?", id, models.RoleProvider).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Provider not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    userResponse(&provider),
	})
}
