package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tubescribe/tubescribe/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [catalog file]",
	Short: "Download and transcribe every video in the catalog",
	Long: `Transcribe walks the catalog CSV top to bottom, downloads each
video's audio track, transcribes it, and writes one transcript file per
video into the working directory. Videos whose ID already appears in a
file name there are skipped, so an interrupted batch can simply be
rerun. All .mp3 artifacts are removed once the batch finishes.`,
	Example: `  # Transcribe everything in the default catalog
  tubescribe transcribe

  # Resume from a specific video ID (inclusive)
  tubescribe transcribe --start-id tAP1eZYEuKA

  # Use a different transcription model
  tubescribe transcribe --model gpt-4o-mini-transcribe`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateTranscriptionRequirements(cmd, config); err != nil {
			return err
		}

		catalogPath := config.CatalogFile
		if len(args) == 1 {
			catalogPath = args[0]
		}

		ui := internal.NewUIManager(config.Verbose, config.Quiet)
		catalog := internal.NewCatalog(catalogPath, ui)

		startID, _ := cmd.Flags().GetString("start-id")
		queue, err := catalog.Queue(startID)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			ui.Println("Nothing to transcribe")
			return nil
		}

		workDir, _ := cmd.Flags().GetString("work-dir")
		if workDir == "" {
			workDir = config.WorkDir
		}

		ledger, err := internal.OpenLedger(config.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: completion ledger unavailable: %v\n", err)
			ledger = nil
		}
		if ledger != nil {
			defer ledger.Close()
		}

		downloader := internal.NewDownloader(workDir, config.Verbose)
		audio := internal.NewAudio(&internal.DefaultCommandRunner{}, config.TempDir, config.Verbose)
		whisper := internal.NewWhisperWithKey(config.OpenAIAPIKey, audio, config.TranscribeModel,
			internal.WhisperLimit, config.WhisperTimeout, config.Verbose)

		transcriber := internal.NewTranscriber(downloader, whisper, ledger, workDir, ui)
		return transcriber.Run(cmd.Context(), queue)
	},
}

func init() {
	transcribeCmd.Flags().String("start-id", "", "Video ID to resume the batch from (inclusive)")
	transcribeCmd.Flags().StringP("model", "m", "", "OpenAI transcription model to use")
	transcribeCmd.Flags().String("work-dir", "", "Directory for audio artifacts and transcripts (default from config)")
	rootCmd.AddCommand(transcribeCmd)
}
