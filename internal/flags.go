package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HandleOutputFlags copies --verbose/--quiet into the config.
func HandleOutputFlags(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	config.Verbose = verbose
	config.Quiet = quiet
	return nil
}

// ValidateTranscriptionRequirements validates the OpenAI API key and the
// transcription model from command flags and config.
func ValidateTranscriptionRequirements(cmd *cobra.Command, config *Config) error {
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}

	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return err
		}
		config.TranscribeModel = modelFlag
	} else if err := ValidateModel(config.TranscribeModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	return nil
}
