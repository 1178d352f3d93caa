package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an external settings file",
	Long: `Validate an externally supplied settings file, migrate it to the
current schema and replace the stored settings with the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("failed to read file")
		return err
	}

	svc, err := newSettingsService()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize storage")
		return err
	}

	snapshot, fromVersion, err := svc.Import(data)
	if err != nil {
		log.Error().Err(err).Msg("import rejected")
		return err
	}

	if err := svc.Save(cmd.Context(), snapshot); err != nil {
		log.Error().Err(err).Msg("failed to save imported settings")
		return err
	}

	event := log.Info().
		Int("groups", len(snapshot.Groups)).
		Int("cards", len(snapshot.Cards))
	if fromVersion != 0 {
		event = event.Int("from_version", fromVersion)
	}
	event.Msg("settings imported")
	return nil
}
