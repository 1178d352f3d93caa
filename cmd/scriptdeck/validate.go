package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"scriptdeck/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an import file",
	Long: `Check the structural shape of an externally supplied settings file
without importing it. Reports the specific violation kind on failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("failed to read file")
		return err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		verr := validate.WrapError(validate.KindInvalidJSON, err, "decoding %s", args[0])
		log.Error().Str("kind", string(verr.Kind)).Msg(verr.Message)
		return verr
	}

	if err := validate.Payload(raw); err != nil {
		log.Error().Str("kind", string(validate.KindOf(err))).Err(err).Msg("validation failed")
		return err
	}

	fmt.Println("Import file is structurally valid.")
	return nil
}
