package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var eventsJSON bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the most recent detection events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := eventlog.Open(cfg.EventLog.Driver, cfg.EventLog.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		recs := store.Recent(cmd.Context())
		if eventsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		if len(recs) == 0 {
			fmt.Println("No events recorded yet.")
			return nil
		}
		fmt.Println(recordTable(recs))
		return nil
	},
}

func init() {
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(eventsCmd)
}

func recordTable(recs []eventlog.Record) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccent).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("ID", "TIME", "CODE", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 2 {
				return cell.Foreground(theme.EventColor(recs[row].Code))
			}
			return cell
		})
	for _, r := range recs {
		ts := "-"
		if !r.Timestamp.IsZero() {
			ts = r.Timestamp.Local().Format("2006-01-02 15:04:05")
		}
		t.Row(strconv.FormatInt(r.ID, 10), ts, r.Code, r.Description)
	}
	return t.Render()
}
