package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/middleware"
	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

type ProfileHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
	Log       zerolog.Logger
}

func NewProfileHandler(db *gorm.DB, jwtSecret string, expiresMin int, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{DB: db, JWTSecret: jwtSecret, Expires: expiresMin, Log: log}
}

// reissueToken refreshes the session cookie after a role change so the role
// claim matches the record.
func (h *ProfileHandler) reissueToken(c *fiber.Ctx, user *models.User) {
	token, err := utils.SignJWT(h.JWTSecret, user.ID.String(), string(user.Role), h.Expires)
	if err != nil {
		h.Log.Error().Err(err).Msg("reissue token")
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    userResponse(&user),
	})
}

type UpdateProfileReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	City  *string `json:"city"`
	Area  *string `json:"area"`

	// Role may only change during initial profile setup.
	Role            *string `json:"role"`
	ProfileComplete *bool   `json:"profile_complete"`
}

// UpdateProfile merges the supplied fields into the current user. Absent
// fields are untouched.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req UpdateProfileReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.City != nil {
		user.City = strings.TrimSpace(*req.City)
	}
	if req.Area != nil {
		user.Area = strings.TrimSpace(*req.Area)
	}

	if req.Role != nil {
		if user.ProfileComplete {
			return fail(c, fiber.StatusBadRequest, "Role cannot change after profile setup")
		}
		role := models.Role(strings.ToLower(strings.TrimSpace(*req.Role)))
		if role != models.RoleCustomer && role != models.RoleProvider {
			errs := FieldErrors{}
			errs.Add("role", "Role must be customer or provider")
			return validationFail(c, errs)
		}
		user.Role = role
	}
	if req.ProfileComplete != nil && *req.ProfileComplete {
		if user.Name == "" {
			errs := FieldErrors{}
			errs.Add("name", "Name is required")
			return validationFail(c, errs)
		}
		user.ProfileComplete = true
	}

	if err := h.DB.Save(&user).Error; err != nil {
		h.Log.Error().Err(err).Msg("update profile")
		return fail(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	if req.Role != nil {
		h.reissueToken(c, &user)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated",
		"data":    userResponse(&user),
	})
}

type OnboardingReq struct {
	Name          string   `json:"name"`
	Profession    string   `json:"profession"`
	InstituteName string   `json:"institute_name"`
	Course        string   `json:"course"`
	ProviderRole  string   `json:"provider_role"`
	Expertise     []string `json:"expertise"`
	StartingPrice float64  `json:"starting_price"`
	Bio           string   `json:"bio"`
	Samples       []string `json:"samples"`
	City          string   `json:"city"`
	Area          string   `json:"area"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// SubmitOnboarding completes provider onboarding: fills the provider fields,
// marks the profile complete and queues the record for admin verification.
func (h *ProfileHandler) SubmitOnboarding(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req OnboardingReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	if strings.TrimSpace(req.Name) == "" {
		errs.Add("name", "Name is required")
	}
	pr := models.ProviderRole(req.ProviderRole)
	if pr != models.ProviderWriter && pr != models.ProviderArtist {
		errs.Add("provider_role", "Choose Writer or Artist")
	}
	if req.StartingPrice <= 0 {
		errs.Add("starting_price", "Starting price must be positive")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	if user.Role == models.RoleProvider && user.ProfileComplete {
		return fail(c, fiber.StatusBadRequest, "Onboarding already submitted")
	}

	user.Role = models.RoleProvider
	user.Name = strings.TrimSpace(req.Name)
	user.Profession = req.Profession
	user.InstituteName = req.InstituteName
	user.Course = req.Course
	user.ProviderRole = pr
	user.Expertise = utils.ToJSONList(req.Expertise)
	user.StartingPrice = req.StartingPrice
	user.Bio = req.Bio
	user.Samples = utils.ToJSONList(req.Samples)
	user.City = req.City
	user.Area = req.Area
	user.Latitude = req.Latitude
	user.Longitude = req.Longitude
	user.ProfileComplete = true
	user.Status = models.ProviderPending

	if err := h.DB.Save(&user).Error; err != nil {
		h.Log.Error().Err(err).Msg("submit onboarding")
		return fail(c, fiber.StatusInternalServerError, "Failed to submit onboarding")
	}

	h.reissueToken(c, &user)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Onboarding submitted for verification",
		"data":    userResponse(&user),
	})
}
