// Package commands implements the sportsschool-api command tree.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sportsschool/internal/adapters/api"
	"sportsschool/internal/adapters/email"
	"sportsschool/internal/adapters/http/perf"
	"sportsschool/internal/adapters/storage"
	accountStore "sportsschool/internal/adapters/storage/account"
	announcementStore "sportsschool/internal/adapters/storage/announcement"
	assessmentStore "sportsschool/internal/adapters/storage/assessment"
	attendanceStore "sportsschool/internal/adapters/storage/attendance"
	coachStore "sportsschool/internal/adapters/storage/coach"
	invoiceStore "sportsschool/internal/adapters/storage/invoice"
	reportStore "sportsschool/internal/adapters/storage/report"
	settingsStore "sportsschool/internal/adapters/storage/settings"
	studentStore "sportsschool/internal/adapters/storage/student"
	"sportsschool/internal/config"
)

// version is set at build time via -ldflags "-X sportsschool/cmd/api/commands.version=..."
var version = "dev"

var (
	envFile string
	cfg     config.API
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "sportsschool-api",
		Short:         "Sports school REST API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			loaded, err := config.LoadAPI(files...)
			if err != nil {
				return err
			}
			cfg = loaded
			slog.SetDefault(config.NewLogger(cfg.Env, cfg.LogLevel))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), remindOverdueCmd())
	if err := root.Execute(); err != nil {
		slog.Error("command_failed", "command", root.Name(), "error", err)
		return err
	}
	return nil
}

// database is an open, migrated connection plus the stores built on it.
type database struct {
	raw    *sql.DB
	stores api.Stores
}

func (d *database) Close() error {
	return d.raw.Close()
}

// openDatabase connects, applies pending migrations and builds every store.
// collector may be nil.
func openDatabase(ctx context.Context, collector *perf.Collector) (*database, error) {
	dialect, err := storage.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	raw, err := storage.Open(ctx, dialect, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(ctx, raw, dialect); err != nil {
		raw.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	db := storage.NewTimedDB(raw, dialect, collector)
	return &database{
		raw: raw,
		stores: api.Stores{
			Accounts:      accountStore.NewSQLStore(db),
			Announcements: announcementStore.NewSQLStore(db),
			Coaches:       coachStore.NewSQLStore(db),
			Students:      studentStore.NewSQLStore(db),
			Invoices:      invoiceStore.NewSQLStore(db),
			Attendance:    attendanceStore.NewSQLStore(db),
			Assessments:   assessmentStore.NewSQLStore(db),
			Reports:       reportStore.NewSQLStore(db),
			Settings:      settingsStore.NewSQLStore(db),
		},
	}, nil
}

// newSender returns the Resend sender when a key is configured, else a no-op sender.
func newSender() email.Sender {
	if cfg.ResendKey == "" {
		slog.Warn("email_event", "event", "sender_disabled", "detail", "API_RESEND_KEY not set, emails are logged only")
		return email.NewNoopSender()
	}
	return email.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
}
