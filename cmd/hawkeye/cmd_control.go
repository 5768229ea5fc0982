package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	"github.com/MarcoPinkman/Hawkeye/internal/config"
	"github.com/MarcoPinkman/Hawkeye/internal/notify"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start detection with the configured session defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, ctl, err := headlessController()
		if err != nil {
			return err
		}
		if len(cfg.Session.Events) == 0 {
			return fmt.Errorf("no events configured")
		}
		ctl.EnterLive()
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ControlPlane.Timeout)
		defer cancel()
		return ctl.Start(ctx, configuredSession(cfg))
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop detection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, ctl, err := headlessController()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ControlPlane.Timeout)
		defer cancel()
		return ctl.Stop(ctx)
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Stop, wait for the service to settle, then start again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, ctl, err := headlessController()
		if err != nil {
			return err
		}
		ctl.EnterLive()
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.ControlPlane.Timeout+session.SettleDelay)
		defer cancel()
		return ctl.Restart(ctx, func() session.Config { return configuredSession(cfg) })
	},
}

func init() {
	rootCmd.AddCommand(startCmd, stopCmd, restartCmd)
}

// stderrNotifier prints controller notifications for headless commands.
type stderrNotifier struct{}

func (stderrNotifier) Notify(text string, sev notify.Severity) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", sev, text)
}

func headlessController() (*config.Config, *session.Controller, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	plane := client.NewHTTPClient(cfg.ControlPlane.URL, cfg.ControlPlane.Token, cfg.ControlPlane.Timeout)
	return cfg, session.New(plane, stderrNotifier{}), nil
}

func configuredSession(cfg *config.Config) session.Config {
	return session.NewConfig(sessionSettings(cfg), cfg.Session.Events)
}
