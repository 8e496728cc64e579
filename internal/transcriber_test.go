package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDownloader writes an .mp3 artifact per download, or fails by ID.
type fakeDownloader struct {
	workDir  string
	failWith map[string]error
	calls    []string
}

func (d *fakeDownloader) DownloadAudio(ctx context.Context, videoID string) (string, error) {
	d.calls = append(d.calls, videoID)
	if err, ok := d.failWith[videoID]; ok {
		return "", fmt.Errorf("%w: %s", err, videoID)
	}
	path := filepath.Join(d.workDir, "Some Title "+videoID+".mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// fakeModel returns a fixed transcript, or fails for specific files.
type fakeModel struct {
	text  string
	fail  bool
	calls []string
}

func (m *fakeModel) Transcribe(ctx context.Context, audioFile string) (string, error) {
	m.calls = append(m.calls, audioFile)
	if m.fail {
		return "", fmt.Errorf("model exploded")
	}
	return m.text, nil
}

func newTestTranscriber(t *testing.T, workDir string, downloader Downloader, model AudioTranscriber) *Transcriber {
	t.Helper()
	ledger, err := OpenLedger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	return NewTranscriber(downloader, model, ledger, workDir, testUI())
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestTranscriber_TranscribesAndCleansUp(t *testing.T) {
	workDir := t.TempDir()
	downloader := &fakeDownloader{workDir: workDir}
	model := &fakeModel{text: "  hello\nworld \n"}
	transcriber := newTestTranscriber(t, workDir, downloader, model)

	require.NoError(t, transcriber.Run(context.Background(), []string{"aaa11111111"}))

	files := listFiles(t, workDir)
	require.Equal(t, []string{"Some Title aaa11111111.txt"}, files)

	content, err := os.ReadFile(filepath.Join(workDir, "Some Title aaa11111111.txt"))
	require.NoError(t, err)
	// Newlines collapsed to spaces, surrounding whitespace trimmed
	assert.Equal(t, "hello world", string(content))
}

func TestTranscriber_SkipsVideosWithExistingOutput(t *testing.T) {
	workDir := t.TempDir()
	existing := filepath.Join(workDir, "Old Title aaa11111111.txt")
	require.NoError(t, os.WriteFile(existing, []byte("old transcript"), 0644))

	downloader := &fakeDownloader{workDir: workDir}
	model := &fakeModel{text: "new transcript"}
	transcriber := newTestTranscriber(t, workDir, downloader, model)

	require.NoError(t, transcriber.Run(context.Background(), []string{"aaa11111111"}))

	// No download, no transcription, existing output untouched
	assert.Empty(t, downloader.calls)
	assert.Empty(t, model.calls)
	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old transcript", string(content))
}

func TestTranscriber_DownloadFailuresSkipItemOnly(t *testing.T) {
	workDir := t.TempDir()
	downloader := &fakeDownloader{
		workDir: workDir,
		failWith: map[string]error{
			"res11111111": ErrRestricted,
			"gen22222222": ErrDownloadFailed,
		},
	}
	model := &fakeModel{text: "transcript"}
	transcriber := newTestTranscriber(t, workDir, downloader, model)

	queue := []string{"res11111111", "gen22222222", "okk33333333"}
	require.NoError(t, transcriber.Run(context.Background(), queue))

	// All three attempted, only the healthy one transcribed
	assert.Equal(t, queue, downloader.calls)
	require.Len(t, model.calls, 1)
	assert.Equal(t, []string{"Some Title okk33333333.txt"}, listFiles(t, workDir))
}

func TestTranscriber_TranscriptionFailureSkipsItemOnly(t *testing.T) {
	workDir := t.TempDir()
	downloader := &fakeDownloader{workDir: workDir}
	model := &fakeModel{fail: true}
	transcriber := newTestTranscriber(t, workDir, downloader, model)

	require.NoError(t, transcriber.Run(context.Background(), []string{"aaa11111111"}))

	// No transcript, and the artifact was still swept
	assert.Empty(t, listFiles(t, workDir))
}

func TestTranscriber_RecordsTerminalStates(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(workDir, "Done ddd44444444.txt"), []byte("done"), 0644))

	downloader := &fakeDownloader{
		workDir:  workDir,
		failWith: map[string]error{"bad22222222": ErrDownloadFailed},
	}
	model := &fakeModel{text: "transcript"}

	ledger, err := OpenLedger(t.TempDir())
	require.NoError(t, err)
	defer ledger.Close()
	transcriber := NewTranscriber(downloader, model, ledger, workDir, testUI())

	ctx := context.Background()
	require.NoError(t, transcriber.Run(ctx, []string{"aaa11111111", "bad22222222", "ddd44444444"}))

	status, err := ledger.Status(ctx, "aaa11111111")
	require.NoError(t, err)
	assert.Equal(t, StatusTranscribed, status)

	status, err = ledger.Status(ctx, "bad22222222")
	require.NoError(t, err)
	assert.Equal(t, StatusDownloadFailed, status)

	status, err = ledger.Status(ctx, "ddd44444444")
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyDone, status)
}

// Catalog with three videos, the second already transcribed: the batch
// processes #1 and #3 only, writes exactly two new transcripts, and sweeps
// every .mp3 from the working directory, including strays.
func TestTranscriber_EndToEndResume(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(workDir, "Second Video bbb22222222.txt"), []byte("existing"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(workDir, "leftover noise.mp3"), []byte("stale"), 0644))

	downloader := &fakeDownloader{workDir: workDir}
	model := &fakeModel{text: "fresh transcript"}
	transcriber := newTestTranscriber(t, workDir, downloader, model)

	queue := []string{"aaa11111111", "bbb22222222", "ccc33333333"}
	require.NoError(t, transcriber.Run(context.Background(), queue))

	assert.Equal(t, []string{"aaa11111111", "ccc33333333"}, downloader.calls)

	files := listFiles(t, workDir)
	assert.ElementsMatch(t, []string{
		"Some Title aaa11111111.txt",
		"Second Video bbb22222222.txt",
		"Some Title ccc33333333.txt",
	}, files)
	for _, name := range files {
		assert.NotEqual(t, ".mp3", filepath.Ext(name))
	}
}

func TestSweepAudio(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp3"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644))

	require.NoError(t, SweepAudio(dir, testUI()))

	assert.Equal(t, []string{"keep.txt"}, listFiles(t, dir))
}

func TestSweepAudio_MissingDirIsNotAnError(t *testing.T) {
	assert.NoError(t, SweepAudio(filepath.Join(t.TempDir(), "nope"), testUI()))
}
