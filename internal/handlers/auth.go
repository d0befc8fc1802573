package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/middleware"
	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/services/otp"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	OTP       otp.Store
	JWTSecret string
	Expires   int
	DevMode   bool
	Log       zerolog.Logger
}

type RequestOTPReq struct {
	Phone string `json:"phone"`
}

// RequestOTP issues a login code for a phone number. There is no SMS
// gateway; the code goes to the log, which is the delivery channel for the
// demo deployment.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req RequestOTPReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		errs := FieldErrors{}
		errs.Add("phone", "Enter a valid 10-digit mobile number")
		return validationFail(c, errs)
	}

	code, err := h.OTP.Issue(c.Context(), phone)
	if err != nil {
		h.Log.Error().Err(err).Str("phone", phone).Msg("issue otp")
		return fail(c, fiber.StatusInternalServerError, "Failed to send OTP")
	}

	h.Log.Info().Str("phone", phone).Str("code", code).Msg("mock SMS: login code issued")

	resp := fiber.Map{
		"success": true,
		"message": "OTP sent",
	}
	if h.DevMode {
		resp["debug_otp"] = code
	}
	return c.JSON(resp)
}

type VerifyOTPReq struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyOTP checks the code and resolves the phone number to a user:
// an existing record wins, otherwise a fresh unregistered customer is
// created with an empty name and an incomplete profile.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := FieldErrors{}
	phone, err := utils.NormalizePhone(req.Phone)
	if err != nil {
		errs.Add("phone", "Enter a valid 10-digit mobile number")
	}
	if len(req.OTP) != otp.CodeLength {
		errs.Add("otp", "Enter the 6-digit code")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	if err := h.OTP.Verify(c.Context(), phone, req.OTP); err != nil {
		if errors.Is(err, otp.ErrCodeExpired) || errors.Is(err, otp.ErrCodeInvalid) {
			return fail(c, fiber.StatusUnauthorized, "Invalid or expired OTP")
		}
		h.Log.Error().Err(err).Msg("verify otp")
		return fail(c, fiber.StatusInternalServerError, "Failed to verify OTP")
	}

	var user models.User
	err = h.DB.First(&user, "phone = ?", phone).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Phone:           phone,
			Role:            models.RoleCustomer,
			Name:            "",
			ProfileComplete: false,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			h.Log.Error().Err(err).Msg("create user")
			return fail(c, fiber.StatusInternalServerError, "Failed to create account")
		}
	case err != nil:
		h.Log.Error().Err(err).Msg("lookup user")
		return fail(c, fiber.StatusInternalServerError, "Server error")
	}

	token, err := utils.SignJWT(h.JWTSecret, user.ID.String(), string(user.Role), h.Expires)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to create token")
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

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"user": userResponse(&user),
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}
