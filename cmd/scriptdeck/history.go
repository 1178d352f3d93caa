package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <card>",
	Short: "Show a card's execution history",
	Long: `Print a card's recorded executions newest first, followed by a
summary of success rate and duration percentiles. The card is matched by
business id, stored id or title.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize storage")
		return err
	}

	entries, stats, err := svc.History(cmd.Context(), args[0])
	if err != nil {
		log.Error().Err(err).Str("card", args[0]).Msg("failed to read history")
		return err
	}

	for _, e := range entries {
		status := "ok"
		switch {
		case e.TimedOut:
			status = "timeout"
		case !e.OK:
			status = "fail"
		}

		line := fmt.Sprintf("%s  %-7s  %6dms",
			time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04:05"), status, e.DurationMS)
		if e.ExitCode != nil {
			line += fmt.Sprintf("  exit=%d", *e.ExitCode)
		}
		if e.Error != "" {
			line += "  " + e.Error
		}
		fmt.Println(line)
	}

	log.Info().
		Int("runs", stats.Count).
		Int("failures", stats.Failures).
		Float64("success_rate", stats.SuccessRate).
		Float64("mean_ms", stats.MeanDuration).
		Int64("p50_ms", stats.P50Duration).
		Int64("p90_ms", stats.P90Duration).
		Msg("history summary")
	return nil
}
