package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a settings backup and prune stale ones",
	Long: `Write a timestamped backup of the current snapshot, then delete
backups beyond the configured retention count. Failures to delete
individual stale backups never undo the new backup.`,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	svc, err := newSettingsService()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize storage")
		return err
	}

	name, err := svc.Backup(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("backup failed")
		return err
	}

	log.Info().Str("backup", name).Msg("backup completed")
	return nil
}
