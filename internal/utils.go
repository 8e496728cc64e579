package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileExists checks if a file exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files, warning on failures.
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// CleanupTempDir purges files from a temporary directory.
func CleanupTempDir(tempDir string) error {
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}

	for _, entry := range entries {
		cleanupFiles(filepath.Join(tempDir, entry.Name()))
	}

	if err := os.Remove(tempDir); err != nil {
		// Fine if the directory sticks around
		fmt.Fprintf(os.Stderr, "Note: could not remove temp directory %s: %v\n", tempDir, err)
	}

	return nil
}

// CollapseText flattens a transcript to a single line: internal newlines
// become single spaces and surrounding whitespace is trimmed.
func CollapseText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// ValidateModel checks if the transcription model is supported.
func ValidateModel(model string) error {
	supportedModels := []string{"whisper-1", "gpt-4o-transcribe", "gpt-4o-mini-transcribe"}
	if slices.Contains(supportedModels, model) {
		return nil
	}
	return fmt.Errorf("unsupported model: %s (supported: %s)", model, strings.Join(supportedModels, ", "))
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set.
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}
