package main

import (
	"fmt"
	"os"

	"github.com/MarcoPinkman/Hawkeye/internal/config"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "hawkeye",
	Short:        "Operator console for remote video-event detection",
	Long:         "Hawkeye walks through model, stream and event setup, then starts detection and follows the event log.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "hawkeye.yaml", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// sessionSettings maps the configured defaults onto the wizard's fields.
func sessionSettings(cfg *config.Config) session.Settings {
	s := cfg.Session
	return session.Settings{
		Model:         s.Model,
		BaseURL:       s.BaseURL,
		PreviewURL:    s.PreviewURL,
		RTSPURL:       s.RTSPURL,
		ChunkDuration: s.ChunkDuration,
		OutputDir:     s.OutputDir,
		Context:       s.Context,
	}
}
