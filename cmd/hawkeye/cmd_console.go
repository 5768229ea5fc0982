package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/app"
	"github.com/MarcoPinkman/Hawkeye/internal/client"
	"github.com/MarcoPinkman/Hawkeye/internal/config"
	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	"github.com/MarcoPinkman/Hawkeye/internal/events"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/MarcoPinkman/Hawkeye/internal/metrics"
	"github.com/MarcoPinkman/Hawkeye/internal/notify"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/MarcoPinkman/Hawkeye/internal/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// eventLogThrottle bounds event log reads from refresh bursts.
const eventLogThrottle = time.Second

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := xlog.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	xlog.Configure(xlog.Config{Level: cfg.Log.Level, Output: logFile, Service: "hawkeye"})
	logger := xlog.WithComponent("main")

	var records eventlog.Source
	store, err := eventlog.Open(cfg.EventLog.Driver, cfg.EventLog.DSN)
	if err != nil {
		logger.Warn().Err(err).Msg("event log unavailable; the live table stays empty")
	} else {
		defer store.Close()
		records = eventlog.NewThrottled(store, eventLogThrottle)
	}

	var prog atomic.Pointer[tea.Program]
	queue := notify.New(notify.WithOnChange(func() {
		if p := prog.Load(); p != nil {
			go p.Send(app.ToastChangedMsg{})
		}
	}))
	defer queue.Close()

	plane := client.NewHTTPClient(cfg.ControlPlane.URL, cfg.ControlPlane.Token, cfg.ControlPlane.Timeout)
	ctl := session.New(plane, queue)

	var feed *client.Feed
	if cfg.EventLog.FeedURL != "" {
		feed = client.NewFeed(cfg.EventLog.FeedURL, cfg.ControlPlane.Token)
	}

	model := app.New(app.Deps{
		Controller:      ctl,
		Queue:           queue,
		Registry:        events.NewRegistry(cfg.Session.Events),
		Records:         records,
		Feed:            feed,
		FeedURL:         cfg.EventLog.FeedURL,
		Settings:        sessionSettings(cfg),
		RefreshInterval: cfg.EventLog.RefreshInterval,
		CallTimeout:     cfg.ControlPlane.Timeout,
	})

	g, ctx := errgroup.WithContext(cmd.Context())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	prog.Store(p)

	srv := metricsServer(cfg)
	if srv != nil {
		g.Go(func() error {
			logger.Info().Str(xlog.FieldURL, srv.Addr).Msg("metrics listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		final, runErr := p.Run()
		teardown(final, ctl, cfg.ControlPlane.Timeout)
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}
		if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
			return fmt.Errorf("console: %w", runErr)
		}
		return nil
	})

	return g.Wait()
}

// teardown stops a session the console left running, whatever way the
// program ended. The guard makes a second teardown a no-op.
func teardown(final tea.Model, ctl *session.Controller, timeout time.Duration) {
	m, ok := final.(app.Model)
	if !ok || m.Teardown() != wizard.EffectStop {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = ctl.Stop(ctx)
}

func metricsServer(cfg *config.Config) *http.Server {
	if cfg.Metrics.Addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
