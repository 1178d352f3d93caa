package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"scriptdeck/internal/models"
	"scriptdeck/internal/services/script"
)

var (
	runScriptPython  string
	runScriptTimeout int
	runScriptCheck   bool
)

var runScriptCmd = &cobra.Command{
	Use:   "run-script <script.py> [args...]",
	Short: "Execute a card script once",
	Long: `Run a python script the way a card refresh would: resolve an
interpreter, apply the timeout and report the outcome.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScript,
}

func init() {
	runScriptCmd.Flags().StringVar(&runScriptPython, "python", "", "explicit python interpreter path")
	runScriptCmd.Flags().IntVar(&runScriptTimeout, "timeout-ms", models.DefaultScriptTimeoutMS, "execution timeout in milliseconds")
	runScriptCmd.Flags().BoolVar(&runScriptCheck, "check", false, "only validate the script and interpreter")
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg := models.ScriptConfig{
		Path:       args[0],
		Args:       args[1:],
		PythonPath: runScriptPython,
		TimeoutMS:  runScriptTimeout,
	}

	svc := script.New(log.Logger)
	ctx := cmd.Context()

	if runScriptCheck {
		validation := svc.Validate(ctx, cfg)
		if !validation.Valid {
			log.Error().Str("reason", validation.Message).Msg("script validation failed")
			return fmt.Errorf("%s", validation.Message)
		}
		log.Info().Str("python", validation.ResolvedPython).Msg("script and interpreter are valid")
		return nil
	}

	result, err := svc.Run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("script execution failed")
		return err
	}

	fmt.Print(result.Stdout)
	if result.TimedOut {
		log.Warn().Int64("duration_ms", result.DurationMS).Msg("script timed out")
		return fmt.Errorf("script timed out")
	}
	if !result.OK {
		if result.ExitCode != nil {
			log.Warn().Int("exit_code", *result.ExitCode).Msg("script exited with failure")
		}
		return fmt.Errorf("script failed")
	}

	log.Info().Int64("duration_ms", result.DurationMS).Msg("script completed")
	return nil
}
