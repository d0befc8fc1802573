package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/middleware"
	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/realtime"
	"github.com/arjundev29/campuskaam_backend/internal/services/jobs"
	"github.com/arjundev29/campuskaam_backend/internal/services/otp"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Job{}, &models.Message{}, &models.Review{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

type testEnv struct {
	App *fiber.App
	DB  *gorm.DB
	OTP *otp.MockStore
}

// newTestEnv wires the API the way cmd/api/main.go does, against an
// in-memory database, a no-op logger and the in-memory OTP store.
func newTestEnv(t *testing.T) *testEnv {
	gdb := setupTestDB(t)
	log := zerolog.Nop()

	hub := realtime.NewHub(log)
	go hub.Run()

	otpStore := otp.NewMockStore()
	jobSvc := jobs.NewService(gdb)

	authH := &AuthHandler{DB: gdb, OTP: otpStore, JWTSecret: testSecret, Expires: 60, DevMode: true, Log: log}
	profileH := NewProfileHandler(gdb, testSecret, 60, log)
	providerH := NewProviderHandler(gdb, log)
	jobH := NewJobHandler(gdb, jobSvc, hub, log)
	chatH := NewChatHandler(gdb, hub, nil, testSecret, log)
	reviewH := NewReviewHandler(gdb, jobSvc, hub, log)
	adminH := NewAdminHandler(gdb, log)

	app := fiber.New()
	api := app.Group("/api")

	api.Post("/auth/otp/request", authH.RequestOTP)
	api.Post("/auth/otp/verify", authH.VerifyOTP)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/providers", providerH.List)
	api.Get("/providers/:id", providerH.Get)
	api.Get("/providers/:id/reviews", reviewH.ListForProvider)

	protected := api.Group("/",
		middleware.JWTFromCookie(testSecret),
		middleware.AttachJWTLocals(),
	)
	protected.Get("/me", profileH.Me)
	protected.Patch("/me", profileH.UpdateProfile)
	protected.Post("/provider/onboarding", middleware.RequireRoles("customer", "provider"), profileH.SubmitOnboarding)
	protected.Post("/jobs", middleware.RequireRoles("customer"), jobH.Create)
	protected.Get("/jobs", jobH.List)
	protected.Get("/jobs/:id", jobH.Get)
	protected.Post("/jobs/:id/quote", middleware.RequireRoles("provider"), jobH.Quote)
	protected.Post("/jobs/:id/confirm", middleware.RequireRoles("customer"), jobH.Confirm)
	protected.Post("/jobs/:id/reject-quote", middleware.RequireRoles("customer"), jobH.RejectQuote)
	protected.Patch("/jobs/:id/status", middleware.RequireRoles("provider"), jobH.UpdateStatus)
	protected.Get("/jobs/:id/messages", chatH.GetMessages)
	protected.Post("/jobs/:id/messages", chatH.SendMessage)
	protected.Post("/jobs/:id/review", middleware.RequireRoles("customer"), reviewH.Submit)
	protected.Get("/admin/providers", middleware.RequireRoles("admin"), adminH.ListProviders)
	protected.Patch("/admin/providers/:id/verify", middleware.RequireRoles("admin"), adminH.VerifyProvider)

	return &testEnv{App: app, DB: gdb, OTP: otpStore}
}

func createUser(t *testing.T, gdb *gorm.DB, role models.Role, name string) *models.User {
	u := models.User{
		Phone:           "+91" + uuid.NewString()[:10],
		Role:            role,
		Name:            name,
		ProfileComplete: true,
	}
	if role == models.RoleProvider {
		u.ProviderRole = models.ProviderWriter
		u.Status = models.ProviderVerified
	}
	require.NoError(t, gdb.Create(&u).Error)
	return &u
}

func authCookie(t *testing.T, user *models.User) *http.Cookie {
	token, err := utils.SignJWT(testSecret, user.ID.String(), string(user.Role), 60)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.TokenCookie, Value: token}
}

// doJSON issues a request with an optional JSON body and auth cookie and
// decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, as *models.User) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.AddCookie(authCookie(t, as))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Middleware rejections come back as plain text from the default
	// error handler; only handler responses carry JSON.
	var decoded map[string]interface{}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "application/json") && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}
