package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AudioTranscriber converts a local audio file to text.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, audioFile string) (string, error)
}

// Transcriber runs the batch transcription pipeline: for each video ID it
// checks for existing output, downloads the audio, transcribes it, and
// writes the transcript next to the artifact. All audio artifacts are
// swept from the working directory once, after the whole batch.
type Transcriber struct {
	downloader Downloader
	model      AudioTranscriber
	ledger     *Ledger // optional
	workDir    string
	ui         UIManager
}

// NewTranscriber creates a batch transcriber. The ledger may be nil.
func NewTranscriber(downloader Downloader, model AudioTranscriber, ledger *Ledger, workDir string, ui UIManager) *Transcriber {
	return &Transcriber{
		downloader: downloader,
		model:      model,
		ledger:     ledger,
		workDir:    workDir,
		ui:         ui,
	}
}

// Run processes every ID in queue order. Individual item failures are
// logged and skipped; the run only fails on the final artifact sweep.
func (t *Transcriber) Run(ctx context.Context, queue []string) error {
	if err := EnsureDirs(t.workDir); err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}

	bar := t.ui.NewProgressBar(len(queue), "Transcribing videos")
	for i, videoID := range queue {
		bar.Set(i)
		t.ui.Printf("Started with video ID: %s\n", videoID)
		t.processOne(ctx, videoID)
	}
	bar.Finish()

	// Unconditional, once per batch, not per item. Deletion errors
	// propagate.
	return SweepAudio(t.workDir, t.ui)
}

// processOne takes a single video from pending to a terminal state.
func (t *Transcriber) processOne(ctx context.Context, videoID string) {
	done, err := t.alreadyDone(videoID)
	if err != nil {
		t.ui.Warnf("Warning: cannot scan working directory for %s: %v\n", videoID, err)
		return
	}
	if done {
		t.ui.Printf("Video %s already has output, skipping\n", videoID)
		t.record(ctx, videoID, StatusAlreadyDone)
		return
	}

	audioFile, err := t.downloader.DownloadAudio(ctx, videoID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRestricted):
			t.ui.Warnf("Error: restricted video %s: %v\n", videoID, err)
		case errors.Is(err, ErrDownloadFailed):
			t.ui.Warnf("Error: unable to download %s: %v\n", videoID, err)
		default:
			t.ui.Warnf("Error: downloading %s: %v\n", videoID, err)
		}
		t.record(ctx, videoID, StatusDownloadFailed)
		return
	}

	text, err := t.model.Transcribe(ctx, audioFile)
	if err != nil {
		t.ui.Warnf("Error: transcribing %s: %v\n", videoID, err)
		t.record(ctx, videoID, StatusFailed)
		return
	}

	transcriptPath := strings.TrimSuffix(audioFile, ".mp3") + ".txt"
	if err := os.WriteFile(transcriptPath, []byte(CollapseText(text)), 0644); err != nil {
		t.ui.Warnf("Error: saving transcript for %s: %v\n", videoID, err)
		t.record(ctx, videoID, StatusFailed)
		return
	}

	t.record(ctx, videoID, StatusTranscribed)
	t.ui.Printf("Done video: %s\n", filepath.Base(transcriptPath))
}

// alreadyDone reports whether any file in the working directory carries
// the video ID in its name.
func (t *Transcriber) alreadyDone(videoID string) (bool, error) {
	entries, err := os.ReadDir(t.workDir)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if strings.Contains(entry.Name(), videoID) {
			return true, nil
		}
	}
	return false, nil
}

// record writes a terminal state to the ledger, if one is attached.
func (t *Transcriber) record(ctx context.Context, videoID, status string) {
	if t.ledger == nil {
		return
	}
	if err := t.ledger.Record(ctx, videoID, status); err != nil {
		t.ui.Warnf("Warning: %v\n", err)
	}
}

// SweepAudio removes every .mp3 artifact in dir, regardless of which job
// produced it. The first deletion error aborts the sweep.
func SweepAudio(dir string, ui UIManager) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("scanning working directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp3") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing audio artifact: %w", err)
		}
		ui.Printf("File '%s' has been removed.\n", entry.Name())
	}

	return nil
}
