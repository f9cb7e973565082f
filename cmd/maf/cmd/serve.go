package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mdwlog "github.com/msto63/mAF/foundation/core/log"
	"github.com/msto63/mAF/internal/frege/handler"
	"github.com/msto63/mAF/internal/frege/server"
	"github.com/msto63/mAF/pkg/core/config"
	"github.com/msto63/mAF/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	servePrune   time.Duration
	serveNoWatch bool
)

const healthInterval = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den Frege-Service",
	Long: `Startet den Frege-Service mit gRPC- und HTTP-Schnittstelle.

Schnittstellen:
  gRPC  frege.v1.FregeService (Tokenize, Parse), Health, Reflection
  HTTP  /ws      WebSocket (tokenize, parse, ping)
        /health  Health-Report als JSON

Eine Änderung der Config-Datei setzt das Log-Level ohne Neustart.

Beispiele:
  maf serve
  maf serve --config configs/config.yaml
  maf serve --prune 720h   # Verlauf älter als 30 Tage löschen`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().DurationVar(&servePrune, "prune", 0, "Beim Start Verlauf löschen, der älter ist als diese Dauer")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Config-Datei nicht auf Änderungen überwachen")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(appOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if servePrune > 0 && a.store != nil {
		removed, err := a.store.Prune(ctx, servePrune)
		if err != nil {
			a.logger.Warn("history prune failed", "error", err)
		} else {
			a.logger.Info("history pruned", "removed", removed, "older_than", servePrune)
		}
	}

	srv, err := server.New(server.Config{
		Host:             a.cfg.Server.Host,
		Port:             a.cfg.Server.GRPCPort,
		EnableReflection: a.cfg.Server.EnableReflection,
		Logger:           a.logger.Named("frege-grpc"),
	}, a.service)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         a.cfg.HTTPAddress(),
		Handler:      handler.NewRouter(a.service, srv.Health(), a.logger.Named("frege-http")),
		ReadTimeout:  a.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: a.cfg.Server.WriteTimeout.Duration,
	}

	if report := srv.Health().RunWithTimeout(5 * time.Second); !report.Healthy() {
		a.logger.Warn("starting with failing health checks", "report", report.String())
	}

	if err := srv.Start(); err != nil {
		return err
	}
	go srv.MonitorHealth(ctx, healthInterval)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Frege HTTP server started", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if src := a.cfg.Source(); src != "" && !serveNoWatch {
		if err := config.Watch(ctx, src, a.applyReload, func(err error) {
			a.logger.Warn("config reload failed", "path", src, "error", err)
		}); err != nil {
			a.logger.Warn("config watch unavailable", "path", src, "error", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "meinAFFE Frege %s\n", version.Frege)
	fmt.Fprintf(cmd.OutOrStdout(), "  gRPC:      %s\n", a.cfg.GRPCAddress())
	fmt.Fprintf(cmd.OutOrStdout(), "  WebSocket: ws://%s/ws\n", httpServer.Addr)
	fmt.Fprintf(cmd.OutOrStdout(), "  Health:    http://%s/health\n", httpServer.Addr)
	fmt.Fprintln(cmd.OutOrStdout(), "Drücke Ctrl+C zum Beenden")

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown requested")
	case runErr = <-errCh:
		a.logger.Error("HTTP server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	srv.Stop(shutdownCtx)

	return runErr
}

// applyReload takes over the settings that can change at runtime. Only the
// log level is applied; addresses and the store need a restart.
func (a *app) applyReload(cfg *config.Config) {
	level, err := mdwlog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		a.logger.Warn("ignoring invalid log level", "level", cfg.Logging.Level)
		return
	}
	if verbose {
		level = mdwlog.LevelDebug
	}

	a.base.SetLevel(level)
	a.logger.Info("configuration reloaded", "path", cfg.Source(), "log_level", level)
}
