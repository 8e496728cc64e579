package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

var (
	// ErrRestricted marks videos that cannot be downloaded because of an
	// age or access restriction.
	ErrRestricted = errors.New("video is access restricted")

	// ErrDownloadFailed marks any other audio acquisition failure.
	ErrDownloadFailed = errors.New("audio download failed")
)

// Downloader acquires the audio track for a video ID and returns the path
// of the local .mp3 artifact.
type Downloader interface {
	DownloadAudio(ctx context.Context, videoID string) (string, error)
}

// YTDLPDownloader downloads audio with yt-dlp, naming artifacts with the
// video title and ID so they stay unique and traceable.
type YTDLPDownloader struct {
	workDir string
	verbose bool
}

// NewDownloader creates a yt-dlp backed downloader writing into workDir.
func NewDownloader(workDir string, verbose bool) *YTDLPDownloader {
	return &YTDLPDownloader{workDir: workDir, verbose: verbose}
}

// DownloadAudio fetches the best available audio track as mp3. Restricted
// videos fail with ErrRestricted, anything else with ErrDownloadFailed.
func (d *YTDLPDownloader) DownloadAudio(ctx context.Context, videoID string) (string, error) {
	if err := EnsureDirs(d.workDir); err != nil {
		return "", fmt.Errorf("creating working directory: %w", err)
	}

	outputTemplate := filepath.Join(d.workDir, "%(title)s "+videoID+".%(ext)s")

	dl := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("192K").
		Output(outputTemplate)
	if !d.verbose {
		dl = dl.Quiet()
	}

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		if d.verbose {
			fmt.Printf("Audio download error for %s: %v\n", videoID, err)
			fmt.Printf("Stderr: %s\n", stderr)
		}
		if isRestricted(stderr) {
			return "", fmt.Errorf("%w: %s", ErrRestricted, videoID)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrDownloadFailed, videoID, err)
	}

	return d.locateArtifact(videoID)
}

// isRestricted inspects yt-dlp stderr for the age/sign-in gate messages.
func isRestricted(stderr string) bool {
	lowered := strings.ToLower(stderr)
	return strings.Contains(lowered, "age-restricted") ||
		strings.Contains(lowered, "sign in to confirm your age") ||
		strings.Contains(lowered, "inappropriate for some users")
}

// audio container extensions yt-dlp may leave behind before postprocessing
var transientAudioExts = map[string]bool{
	".webm": true,
	".m4a":  true,
	".opus": true,
	".ogg":  true,
}

// locateArtifact finds the downloaded file for a video ID and normalizes
// its extension to .mp3 regardless of the source container.
func (d *YTDLPDownloader) locateArtifact(videoID string) (string, error) {
	entries, err := os.ReadDir(d.workDir)
	if err != nil {
		return "", fmt.Errorf("scanning working directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.Contains(name, videoID) {
			continue
		}

		ext := filepath.Ext(name)
		path := filepath.Join(d.workDir, name)
		switch {
		case ext == ".mp3":
			return path, nil
		case transientAudioExts[ext]:
			normalized := strings.TrimSuffix(path, ext) + ".mp3"
			if err := os.Rename(path, normalized); err != nil {
				return "", fmt.Errorf("normalizing audio extension: %w", err)
			}
			return normalized, nil
		}
	}

	return "", fmt.Errorf("%w: no audio artifact found for %s", ErrDownloadFailed, videoID)
}
