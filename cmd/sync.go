package cmd

import (
	"context"
	"fmt"

	"notion-mirror/core/calendar"
	"notion-mirror/core/config"
	"notion-mirror/core/logger"
	"notion-mirror/core/notion"
	"notion-mirror/core/storage"
	"notion-mirror/feature/mirror"

	"github.com/spf13/cobra"
)

var (
	// Flag for the rolling sync command
	lookaheadOverride int
)

// syncCmd is the parent command for the one-shot reconciliation runs.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation against the Notion database",
	Long: `Run a single reconciliation and exit.

Both variants upsert a page for every calendar event in their window and
archive the pages no current event claims. They differ only in the window:

  full     the current calendar month
  rolling  first of the current month until today plus the lookahead

Examples:
  # Mirror the running month
  notion-mirror sync full

  # Mirror the rolling window with a two week horizon
  notion-mirror sync rolling --lookahead 14`,
}

var syncFullCmd = &cobra.Command{
	Use:   "full",
	Short: "Mirror the current calendar month",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(mirror.ModeFull)
	},
}

var syncRollingCmd = &cobra.Command{
	Use:   "rolling",
	Short: "Mirror the current month plus the lookahead window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(mirror.ModeRolling)
	},
}

func init() {
	syncCmd.AddCommand(syncFullCmd)
	syncCmd.AddCommand(syncRollingCmd)

	syncRollingCmd.Flags().IntVar(&lookaheadOverride, "lookahead", 0, "Override sync.lookahead_days for this run")

	RootCmd.AddCommand(syncCmd)
}

func runSync(mode mirror.Mode) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if lookaheadOverride > 0 {
		cfg.Sync.LookaheadDays = lookaheadOverride
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	tz, err := cfg.Sync.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	// Connect both sides
	store := notion.NewClient(cfg.Notion, l)

	source, err := calendar.NewGoogleSource(ctx, cfg.Calendar, tz, l)
	if err != nil {
		return fmt.Errorf("failed to create calendar source: %w", err)
	}

	projector := mirror.NewProjector(mirror.DefaultPropertyNames(), tz)
	rec := mirror.NewReconciler(store, projector, l)

	// Report archive is optional
	var archive *mirror.ReportArchive
	if cfg.Sync.ArchiveReports {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		archive = mirror.NewReportArchive(client, cfg.Storage.Bucket, l)
	}

	svc := mirror.NewService(source, rec, archive, mirror.Settings{
		Timezone:      tz,
		LookaheadDays: cfg.Sync.LookaheadDays,
		Calendars:     cfg.Sync.CalendarList(),
	}, l)

	// Run. Per-event failures are already logged and counted by the run
	// itself; the aggregate error makes the process exit non-zero.
	if mode == mirror.ModeFull {
		_, err = svc.FullResync(ctx)
	} else {
		_, err = svc.RollingSync(ctx)
	}
	return err
}
