package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Normalize stored settings to the current schema",
	Long: `Load the primary settings blob, migrate it to the current schema
version and write the canonical snapshot back. Loading already migrates;
this command persists the result so older shapes are rewritten on disk.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize storage")
		return err
	}

	ctx := cmd.Context()

	snapshot, err := svc.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return err
	}

	if err := svc.Save(ctx, snapshot); err != nil {
		log.Error().Err(err).Msg("failed to save settings")
		return err
	}

	log.Info().
		Int("schema_version", snapshot.SchemaVersion).
		Int("groups", len(snapshot.Groups)).
		Int("cards", len(snapshot.Cards)).
		Msg("settings normalized")
	return nil
}
