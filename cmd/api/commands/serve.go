package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sportsschool/internal/adapters/api"
	"sportsschool/internal/adapters/http/perf"
	"sportsschool/internal/application/orchestrators"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector := perf.NewCollector(perf.DefaultRingSize)
			db, err := openDatabase(ctx, collector)
			if err != nil {
				return err
			}
			defer db.Close()

			if cfg.AdminPassword != "" {
				if _, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.CreateAccountDeps{
					AccountStore: db.stores.Accounts,
					GenerateID:   uuid.NewString,
					Now:          time.Now,
				}, cfg.AdminEmail, cfg.AdminPassword); err != nil {
					return err
				}
			}

			handler := api.NewHandler(api.Config{
				JWTSecret:     []byte(cfg.JWTSecret),
				TokenTTL:      cfg.TokenTTL,
				CORSOrigins:   cfg.CORSOrigins,
				SlowRequestMs: cfg.SlowRequestMs,
			}, api.Deps{
				Stores:     db.stores,
				Sender:     newSender(),
				Perf:       collector,
				Now:        time.Now,
				GenerateID: uuid.NewString,
			})

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Warn("shutdown_failed", "error", err)
				}
			}()

			slog.Info("api_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "driver", cfg.DBDriver)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			slog.Info("api_stopped")
			return nil
		},
	}
}
