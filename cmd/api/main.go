package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/studydao/configs"
	"github.com/anjiri1684/studydao/database"
	"github.com/anjiri1684/studydao/handlers"
	"github.com/anjiri1684/studydao/jobs"
	"github.com/anjiri1684/studydao/middleware"
	"github.com/anjiri1684/studydao/notifications"
	"github.com/anjiri1684/studydao/routes"
	"github.com/anjiri1684/studydao/services"
	"github.com/anjiri1684/studydao/utils"
	"github.com/anjiri1684/studydao/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	utils.SetupLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("🔥 Failed to open store")
	}
	if seeded, err := database.SeedDAOs(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("🔥 Failed to seed DAOs")
	} else if seeded > 0 {
		log.Info().Int("count", seeded).Msg("✅ Seeded default DAOs")
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	solana := services.NewSolanaClient(cfg.SolanaRPCURL, cfg.ProviderTimeout)
	h := &handlers.Handler{
		Store:         store,
		DAOs:          services.NewDAOService(store, store, hub),
		Minter:        services.NewMinter(solana),
		Wallets:       solana,
		Hub:           hub,
		JWTSecret:     cfg.JWTSecret,
		CloudinaryURL: cfg.CloudinaryURL,
	}
	wireProviders(cfg, h, store)

	c := cron.New()
	if err := jobs.Schedule(c, store); err != nil {
		log.Fatal().Err(err).Msg("🔥 Failed to schedule jobs")
	}
	c.Start()
	defer c.Stop()
	log.Info().Str("schedule", jobs.CreditAuditSchedule).Msg("✅ Treasury credit audit scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "StudyDAO",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     1 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Int("status", code).Msg("request error")
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "message": "Welcome to StudyDAO API"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "store": cfg.StoreDriver, "feed_clients": hub.Count()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.Register(app, h, middleware.NewRateLimiter(cfg.TutorRatePerMinute))

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("🔥 Shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("✅ Server is running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("🔥 Server failed to start")
	}
}

func openStore(cfg *config.AppConfig) (database.Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := database.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return database.NewGormStore(db), nil
	case "file":
		log.Info().Str("dir", cfg.DataDir).Msg("✅ Using file store")
		return database.NewFileStore(cfg.DataDir)
	default:
		return nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}

// wireProviders attaches the optional third-party integrations. Each one is
// skipped with a warning when its credentials are missing.
func wireProviders(cfg *config.AppConfig, h *handlers.Handler, store database.Store) {
	if gemini, err := services.NewGeminiClient(services.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}); err != nil {
		log.Warn().Err(err).Msg("⚠️ AI tutor disabled")
	} else {
		h.Tutor = services.NewTutorService(gemini, store, store)
	}

	if voice, err := services.NewElevenLabsClient(services.ElevenLabsOptions{
		APIKey:  cfg.ElevenLabsAPIKey,
		VoiceID: cfg.ElevenLabsVoiceID,
		BaseURL: cfg.ElevenLabsBaseURL,
	}); err != nil {
		log.Warn().Err(err).Msg("⚠️ Voice synthesis disabled")
	} else {
		h.Voice = voice
	}

	var mailer services.Mailer
	if brevo := notifications.NewBrevoService(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName, ""); brevo != nil {
		mailer = brevo
		h.Mailer = brevo
	}

	if cfg.CloudinaryURL == "" {
		log.Warn().Msg("⚠️ Badge certificates disabled, CLOUDINARY_URL is not set")
		return
	}
	uploader, err := services.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Badge certificates disabled")
		return
	}
	h.Certificates = services.NewCertificateIssuer(services.ChromePDFRenderer{}, uploader, mailer)
}
