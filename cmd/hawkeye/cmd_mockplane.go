package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/MarcoPinkman/Hawkeye/internal/mockplane"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	mockAddr      string
	mockToken     string
	mockInterval  time.Duration
	mockFailStart string
)

var mockplaneCmd = &cobra.Command{
	Use:   "mockplane",
	Short: "Run a local control plane that fakes detections",
	Long: "mockplane serves /start, /stop and the /ws event feed, and writes fake " +
		"detections for the running session into the configured event log.",
	Args: cobra.NoArgs,
	RunE: runMockplane,
}

func init() {
	f := mockplaneCmd.Flags()
	f.StringVar(&mockAddr, "addr", "127.0.0.1:8090", "listen address")
	f.StringVar(&mockToken, "token", "", "bearer token required on every call (empty disables auth)")
	f.DurationVar(&mockInterval, "interval", 3*time.Second, "time between fake detections")
	f.StringVar(&mockFailStart, "fail-start", "", "answer every start with a 500 carrying this detail")
	rootCmd.AddCommand(mockplaneCmd)
}

func runMockplane(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	xlog.Configure(xlog.Config{Level: cfg.Log.Level, Output: os.Stderr, Service: "hawkeye-mockplane"})
	logger := xlog.WithComponent("main")

	store, err := eventlog.Open(cfg.EventLog.Driver, cfg.EventLog.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	plane := mockplane.NewServer(store, mockplane.Options{
		Token:     mockToken,
		Interval:  mockInterval,
		FailStart: mockFailStart,
	})
	defer plane.Close()

	mux := http.NewServeMux()
	plane.SetupRoutes(mux)
	srv := &http.Server{Addr: mockAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str(xlog.FieldURL, "http://"+mockAddr).Msg("mock control plane listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
