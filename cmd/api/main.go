package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/arjundev29/campuskaam_backend/internal/config"
	"github.com/arjundev29/campuskaam_backend/internal/db"
	"github.com/arjundev29/campuskaam_backend/internal/handlers"
	"github.com/arjundev29/campuskaam_backend/internal/logger"
	"github.com/arjundev29/campuskaam_backend/internal/middleware"
	"github.com/arjundev29/campuskaam_backend/internal/realtime"
	"github.com/arjundev29/campuskaam_backend/internal/services/jobs"
	"github.com/arjundev29/campuskaam_backend/internal/services/otp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.DevMode)

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if err := db.SeedProviders(gdb); err != nil {
		log.Fatal().Err(err).Msg("seed providers")
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")

	hub := realtime.NewHub(log)
	go hub.Run()

	otpStore := otp.NewRedisStore(rdb, time.Duration(cfg.OTPTTLMin)*time.Minute)

	jobSvc := jobs.NewService(gdb)
	jobSvc.ClearQuoteOnRevert = cfg.ClearQuoteOnRevert

	authH := &handlers.AuthHandler{
		DB:        gdb,
		OTP:       otpStore,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
		DevMode:   cfg.DevMode,
		Log:       log,
	}
	profileH := handlers.NewProfileHandler(gdb, cfg.JWTSecret, cfg.JWTExpiresMin, log)
	providerH := handlers.NewProviderHandler(gdb, log)
	jobH := handlers.NewJobHandler(gdb, jobSvc, hub, log)
	chatH := handlers.NewChatHandler(gdb, hub, rdb, cfg.JWTSecret, log)
	reviewH := handlers.NewReviewHandler(gdb, jobSvc, hub, log)
	adminH := handlers.NewAdminHandler(gdb, log)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/otp/request", authH.RequestOTP)
	api.Post("/auth/otp/verify", authH.VerifyOTP)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/providers", providerH.List)
	api.Get("/providers/:id", providerH.Get)
	api.Get("/providers/:id/reviews", reviewH.ListForProvider)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", profileH.Me)
	protected.Patch("/me", profileH.UpdateProfile)
	protected.Post("/provider/onboarding",
		middleware.RequireRoles("customer", "provider"),
		profileH.SubmitOnboarding,
	)

	protected.Post("/jobs",
		middleware.RequireRoles("customer"),
		jobH.Create,
	)
	protected.Get("/jobs", jobH.List)
	protected.Get("/jobs/:id", jobH.Get)
	protected.Post("/jobs/:id/quote",
		middleware.RequireRoles("provider"),
		jobH.Quote,
	)
	protected.Post("/jobs/:id/confirm",
		middleware.RequireRoles("customer"),
		jobH.Confirm,
	)
	protected.Post("/jobs/:id/reject-quote",
		middleware.RequireRoles("customer"),
		jobH.RejectQuote,
	)
	protected.Patch("/jobs/:id/status",
		middleware.RequireRoles("provider"),
		jobH.UpdateStatus,
	)

	protected.Get("/jobs/:id/messages", chatH.GetMessages)
	protected.Post("/jobs/:id/messages", chatH.SendMessage)

	protected.Post("/jobs/:id/review",
		middleware.RequireRoles("customer"),
		reviewH.Submit,
	)

	// admin only
	protected.Get("/admin/providers",
		middleware.RequireRoles("admin"),
		adminH.ListProviders,
	)
	protected.Patch("/admin/providers/:id/verify",
		middleware.RequireRoles("admin"),
		adminH.VerifyProvider,
	)

	// WebSocket endpoint, authenticated via query param
	app.Get("/ws/chat", websocket.New(chatH.WebSocketHandler))

	log.Info().Str("port", cfg.AppPort).Msg("listening")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
