package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"scriptdeck/internal/config"
	"scriptdeck/internal/identity"
	"scriptdeck/internal/services/backup"
	"scriptdeck/internal/services/blobstore"
	"scriptdeck/internal/services/settings"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	storageDir string
	verbose    bool
	quiet      bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "scriptdeck",
	Short: "Settings persistence tooling for the scriptdeck dashboard",
	Long: `scriptdeck manages the dashboard's persisted configuration:
  - Migrate stored settings from any prior version to the current schema
  - Validate and import externally supplied settings files
  - Export the canonical snapshot
  - Create timestamped backups and prune stale ones
  - Run and validate card scripts`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storageDir, "dir", "d", "", "storage directory (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(runScriptCmd)
	rootCmd.AddCommand(historyCmd)
}

func setupLogging() {
	// Set output format
	if jsonOutput {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set log level
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newSettingsService wires the production service stack: pointer record,
// blob store, backup service.
func newSettingsService() (settings.Service, error) {
	fs := afero.NewOsFs()

	dir := storageDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(configDir, "scriptdeck")
	}

	resolved, err := config.NewParser(fs).ResolveDir(dir)
	if err != nil {
		return nil, err
	}

	store := blobstore.NewFS(log.Logger, fs, resolved)
	backupSvc := backup.New(log.Logger, store, identity.SystemClock{})
	return settings.New(log.Logger, store, backupSvc), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
