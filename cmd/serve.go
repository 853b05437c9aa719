package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"notion-mirror/core/calendar"
	"notion-mirror/core/config"
	"notion-mirror/core/loader"
	"notion-mirror/core/logger"
	"notion-mirror/core/middleware/auth"
	"notion-mirror/core/middleware/rayid"
	"notion-mirror/core/notion"
	"notion-mirror/core/storage"

	"notion-mirror/feature/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sync triggers and run the schedules",
	Long: `Starts the HTTP server with the sync trigger endpoints and keeps the
configured cron schedules running until the process is stopped.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		tz, err := cfg.Sync.Location()
		if err != nil {
			logg.Fatal("Invalid timezone", zap.Error(err))
		}

		// 3. Connect both sides
		store := notion.NewClient(cfg.Notion, logg)

		source, err := calendar.NewGoogleSource(ctx, cfg.Calendar, tz, logg)
		if err != nil {
			logg.Fatal("Failed to create calendar source", zap.Error(err))
		}

		// Report archive is optional
		var archive *mirror.ReportArchive
		if cfg.Sync.ArchiveReports {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			archive = mirror.NewReportArchive(client, cfg.Storage.Bucket, logg)
		}

		projector := mirror.NewProjector(mirror.DefaultPropertyNames(), tz)
		rec := mirror.NewReconciler(store, projector, logg)
		svc := mirror.NewService(source, rec, archive, mirror.Settings{
			Timezone:      tz,
			LookaheadDays: cfg.Sync.LookaheadDays,
			Calendars:     cfg.Sync.CalendarList(),
		}, logg)

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(mirror.NewFeature(svc))

		// Middleware Registration
		// RayID must come first so everything downstream can be traced.
		app.Use(rayid.New())

		// Request logging (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Health check stays public
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// Auth (protect the trigger endpoints)
		if cfg.Server.RequireAuth() {
			app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		} else {
			logg.Warn("No API key configured; sync triggers are unprotected")
		}

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Schedules. SkipIfStillRunning keeps a slow run from stacking
		// up behind its own next trigger.
		sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logg})))
		if cfg.Sync.RollingSchedule != "" {
			if _, err := sched.AddFunc(cfg.Sync.RollingSchedule, func() {
				if _, err := svc.RollingSync(context.Background()); err != nil {
					logg.Error("Scheduled rolling sync failed", zap.Error(err))
				}
			}); err != nil {
				logg.Fatal("Invalid rolling sync schedule", zap.Error(err))
			}
		}
		if cfg.Sync.FullSchedule != "" {
			if _, err := sched.AddFunc(cfg.Sync.FullSchedule, func() {
				if _, err := svc.FullResync(context.Background()); err != nil {
					logg.Error("Scheduled full resync failed", zap.Error(err))
				}
			}); err != nil {
				logg.Fatal("Invalid full resync schedule", zap.Error(err))
			}
		}
		sched.Start()

		// 8. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("rolling_schedule", cfg.Sync.RollingSchedule),
				zap.String("full_schedule", cfg.Sync.FullSchedule),
			)
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		// Stop() lets an in-flight scheduled run finish first
		<-sched.Stop().Done()
		_ = app.Shutdown()
	},
}

// cronLogger adapts zap to the cron logging interface, so skipped and
// recovered runs surface in the normal log stream.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Infow(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
