package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arjundev29/campuskaam_backend/internal/models"
)

// userResponse shapes a user for API output. `verified` is derived from the
// verification status, never stored.
func userResponse(u *models.User) fiber.Map {
	resp := fiber.Map{
		"id":               u.ID,
		"phone":            u.Phone,
		"role":             u.Role,
		"name":             u.Name,
		"email":            u.Email,
		"city":             u.City,
		"area":             u.Area,
		"profile_complete": u.ProfileComplete,
	}

	if u.Role == models.RoleProvider {
		resp["profession"] = u.Profession
		resp["institute_name"] = u.InstituteName
		resp["course"] = u.Course
		resp["provider_role"] = u.ProviderRole
		resp["expertise"] = u.Expertise
		resp["starting_price"] = u.StartingPrice
		resp["bio"] = u.Bio
		resp["samples"] = u.Samples
		resp["status"] = u.Status
		resp["verified"] = u.Verified()
		resp["rating"] = u.Rating
		resp["total_reviews"] = u.TotalReviews
		resp["latitude"] = u.Latitude
		resp["longitude"] = u.Longitude
	}

	return resp
}
