package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the canonical settings snapshot",
	Long: `Write the sanitized current snapshot to a file, or to stdout when
no file is given. Runtime-only fields are stripped.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize storage")
		return err
	}

	data, err := svc.Export(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		return err
	}

	if exportFile == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(exportFile, data, 0o644); err != nil {
		log.Error().Err(err).Str("file", exportFile).Msg("failed to write export")
		return err
	}

	log.Info().Str("file", exportFile).Int("bytes", len(data)).Msg("settings exported")
	return nil
}
