package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

func newUnregisteredUser(t *testing.T, env *testEnv) *models.User {
	u := models.User{
		Phone: "+919876512345",
		Role:  models.RoleCustomer,
	}
	require.NoError(t, env.DB.Create(&u).Error)
	return &u
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	customer := createUser(t, env.DB, models.RoleCustomer, "Amit")

	status, resp := doJSON(t, env.App, "GET", "/api/me", nil, customer)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Amit", resp["data"].(map[string]interface{})["name"])

	status, _ = doJSON(t, env.App, "GET", "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	env := newTestEnv(t)
	user := newUnregisteredUser(t, env)

	status, resp := doJSON(t, env.App, "PATCH", "/api/me", map[string]interface{}{
		"name": "Amit Kumar",
		"city": "Mumbai",
	}, user)
	require.Equal(t, http.StatusOK, status)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Amit Kumar", data["name"])
	assert.Equal(t, "Mumbai", data["city"])
	// untouched fields survive a partial update
	assert.Equal(t, user.Phone, data["phone"])

	// second partial update keeps earlier fields
	status, resp = doJSON(t, env.App, "PATCH", "/api/me", map[string]interface{}{
		"area": "Andheri West",
	}, user)
	require.Equal(t, http.StatusOK, status)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, "Amit Kumar", data["name"])
	assert.Equal(t, "Andheri West", data["area"])
}

func TestProfileSetupLocksRole(t *testing.T) {
	env := newTestEnv(t)
	user := newUnregisteredUser(t, env)

	status, _ := doJSON(t, env.App, "PATCH", "/api/me", map[string]interface{}{
		"name":             "Amit",
		"role":             "customer",
		"profile_complete": true,
	}, user)
	require.Equal(t, http.StatusOK, status)

	// role is fixed once the profile is complete
	status, resp := doJSON(t, env.App, "PATCH", "/api/me", map[string]interface{}{
		"role": "provider",
	}, user)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp["success"].(bool))
}

func TestProfileCompleteRequiresName(t *testing.T) {
	env := newTestEnv(t)
	user := newUnregisteredUser(t, env)

	status, _ := doJSON(t, env.App, "PATCH", "/api/me", map[string]interface{}{
		"profile_complete": true,
	}, user)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProviderOnboarding(t *testing.T) {
	env := newTestEnv(t)
	user := newUnregisteredUser(t, env)

	status, resp := doJSON(t, env.App, "POST", "/api/provider/onboarding", map[string]interface{}{
		"name":           "Sneha Rao",
		"profession":     "Student",
		"institute_name": "Mumbai University",
		"provider_role":  "Writer",
		"expertise":      []string{"Notes", "Assignments"},
		"starting_price": 45,
		"bio":            "Neat handwriting, quick turnaround.",
		"city":           "Mumbai",
		"area":           "Dadar",
	}, user)
	require.Equal(t, http.StatusOK, status, "body: %v", resp)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "provider", data["role"])
	assert.Equal(t, "PENDING_VERIFICATION", data["status"])
	assert.Equal(t, false, data["verified"])
	assert.Equal(t, true, data["profile_complete"])

	var stored models.User
	require.NoError(t, env.DB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, models.RoleProvider, stored.Role)
	assert.Equal(t, models.ProviderPending, stored.Status)
	assert.Equal(t, []string{"Notes", "Assignments"}, utils.FromJSONList(stored.Expertise))

	// fresh pending provider is invisible in the verified-only directory
	_, resp = doJSON(t, env.App, "GET", "/api/providers?verified_only=true", nil, nil)
	assert.Empty(t, resp["data"])

	// resubmitting is rejected
	status, _ = doJSON(t, env.App, "POST", "/api/provider/onboarding", map[string]interface{}{
		"name": "Sneha Rao", "provider_role": "Writer", "starting_price": 45,
	}, user)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOnboardingValidation(t *testing.T) {
	env := newTestEnv(t)
	user := newUnregisteredUser(t, env)

	status, resp := doJSON(t, env.App, "POST", "/api/provider/onboarding", map[string]interface{}{
		"name":           "",
		"provider_role":  "Plumber",
		"starting_price": 0,
	}, user)
	assert.Equal(t, http.StatusBadRequest, status)

	errs := resp["errors"].(map[string]interface{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "provider_role")
	assert.Contains(t, errs, "starting_price")
}
