package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
)

type AdminHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewAdminHandler(db *gorm.DB, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{DB: db, Log: log}
}

// ListProviders returns providers for the verification dashboard, optionally
// filtered by status.
func (h *AdminHandler) ListProviders(c *fiber.Ctx) error {
	q := h.DB.Model(&models.User{}).
		Where("role = ?", models.RoleProvider).
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		ps := models.ProviderStatus(status)
		switch ps {
		case models.ProviderPending, models.ProviderVerified, models.ProviderRejected:
			q = q.Where("status = ?", ps)
		default:
			return fail(c, fiber.StatusBadRequest, "Invalid status filter")
		}
	}

	var providers []models.User
	if err := q.Find(&providers).Error; err != nil {
		h.Log.Error().Err(err).Msg("admin list providers")
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

type VerifyProviderReq struct {
	Action string `json:"action"` // approve | reject
}

// VerifyProvider approves or rejects a pending provider. Approval is the only
// way a provider becomes verified.
func (h *AdminHandler) VerifyProvider(c *fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid provider ID")
	}

	var req VerifyProviderReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var next models.ProviderStatus
	var verb string
	switch req.Action {
	case "approve":
		next = models.ProviderVerified
		verb = "approved"
	case "reject":
		next = models.ProviderRejected
		verb = "rejected"
	default:
		return fail(c, fiber.StatusBadRequest, "Action must be approve or reject")
	}

	var provider models.User
	if err := h.DB.First(&provider, "id = ? AND role = ?", providerID, models.RoleProvider).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Provider not found")
	}

	provider.Status = next
	if err := h.DB.Save(&provider).Error; err != nil {
		h.Log.Error().Err(err).Msg("verify provider")
		return fail(c, fiber.StatusInternalServerError, "Failed to update provider")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Provider " + verb,
		"data":    userResponse(&provider),
	})
}
