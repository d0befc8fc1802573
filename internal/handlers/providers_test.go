package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjundev29/campuskaam_backend/internal/db"
	"github.com/arjundev29/campuskaam_backend/internal/models"
)

func seedDirectory(t *testing.T, env *testEnv) {
	require.NoError(t, db.SeedProviders(env.DB))
}

func names(data []interface{}) []string {
	out := make([]string, 0, len(data))
	for _, d := range data {
		out = append(out, d.(map[string]interface{})["name"].(string))
	}
	return out
}

func TestProviderListOrdering(t *testing.T) {
	env := newTestEnv(t)
	seedDirectory(t, env)

	status, resp := doJSON(t, env.App, "GET", "/api/providers", nil, nil)
	require.Equal(t, http.StatusOK, status)

	data := resp["data"].([]interface{})
	require.Len(t, data, 4)

	// verified first, then rating descending; the single unverified
	// provider (Anjali) comes last
	assert.Equal(t, []string{"Rahul Verma", "Priya Sharma", "Vikram Singh", "Anjali Patel"}, names(data))

	for i, d := range data {
		entry := d.(map[string]interface{})
		if i < 3 {
			assert.True(t, entry["verified"].(bool), "entry %d should be verified", i)
		} else {
			assert.False(t, entry["verified"].(bool))
		}
	}
}

func TestProviderListRoleFilter(t *testing.T) {
	env := newTestEnv(t)
	seedDirectory(t, env)

	status, resp := doJSON(t, env.App, "GET", "/api/providers?role=Writer", nil, nil)
	require.Equal(t, http.StatusOK, status)

	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	for _, d := range data {
		assert.Equal(t, "Writer", d.(map[string]interface{})["provider_role"].(string))
	}
	// verified Writer before the unverified one
	assert.Equal(t, []string{"Priya Sharma", "Anjali Patel"}, names(data))

	status, _ = doJSON(t, env.App, "GET", "/api/providers?role=Plumber", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProviderListVerifiedOnly(t *testing.T) {
	env := newTestEnv(t)
	seedDirectory(t, env)

	status, resp := doJSON(t, env.App, "GET", "/api/providers?verified_only=true", nil, nil)
	require.Equal(t, http.StatusOK, status)

	data := resp["data"].([]interface{})
	require.Len(t, data, 3)
	for _, d := range data {
		assert.True(t, d.(map[string]interface{})["verified"].(bool))
	}
}

func TestProviderListExcludesIncompleteProfiles(t *testing.T) {
	env := newTestEnv(t)
	seedDirectory(t, env)

	incomplete := models.User{
		Phone:        "+919876500099",
		Role:         models.RoleProvider,
		Name:         "Draft Provider",
		ProviderRole: models.ProviderWriter,
		Status:       models.ProviderPending,
	}
	require.NoError(t, env.DB.Create(&incomplete).Error)

	_, resp := doJSON(t, env.App, "GET", "/api/providers", nil, nil)
	data := resp["data"].([]interface{})
	assert.Len(t, data, 4)
	assert.NotContains(t, names(data), "Draft Provider")
}

func TestProviderGet(t *testing.T) {
	env := newTestEnv(t)
	seedDirectory(t, env)

	var priya models.User
	require.NoError(t, env.DB.First(&priya, "name = ?", "Priya Sharma").Error)

	status, resp := doJSON(t, env.App, "GET", "/api/providers/"+priya.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, status)

	entry := resp["data"].(map[string]interface{})
	assert.Equal(t, "Priya Sharma", entry["name"])
	assert.Equal(t, true, entry["verified"])
	assert.EqualValues(t, 4.8, entry["rating"])

	status, _ = doJSON(t, env.App, "GET", "/api/providers/00000000-0000-0000-0000-000000000000", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
