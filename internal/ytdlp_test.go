package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateArtifact_NormalizesContainerExtension(t *testing.T) {
	tests := []string{".webm", ".m4a", ".opus", ".ogg"}

	for _, ext := range tests {
		t.Run(ext, func(t *testing.T) {
			workDir := t.TempDir()
			downloaded := filepath.Join(workDir, "Some Title aaa11111111"+ext)
			require.NoError(t, os.WriteFile(downloaded, []byte("audio"), 0644))

			d := NewDownloader(workDir, false)
			path, err := d.locateArtifact("aaa11111111")
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(workDir, "Some Title aaa11111111.mp3"), path)
			assert.True(t, FileExists(path))
			assert.False(t, FileExists(downloaded))
		})
	}
}

func TestLocateArtifact_MP3NeedsNoRename(t *testing.T) {
	workDir := t.TempDir()
	downloaded := filepath.Join(workDir, "Some Title aaa11111111.mp3")
	require.NoError(t, os.WriteFile(downloaded, []byte("audio"), 0644))

	d := NewDownloader(workDir, false)
	path, err := d.locateArtifact("aaa11111111")
	require.NoError(t, err)
	assert.Equal(t, downloaded, path)
}

func TestLocateArtifact_IgnoresOtherVideosFiles(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(workDir, "Other Video bbb22222222.webm"), []byte("audio"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(workDir, "Transcript aaa11111111.txt"), []byte("text"), 0644))

	d := NewDownloader(workDir, false)
	_, err := d.locateArtifact("aaa11111111")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)

	// The unrelated video's artifact was left alone
	assert.True(t, FileExists(filepath.Join(workDir, "Other Video bbb22222222.webm")))
}

func TestLocateArtifact_EmptyDir(t *testing.T) {
	d := NewDownloader(t.TempDir(), false)
	_, err := d.locateArtifact("aaa11111111")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
}

func TestIsRestricted(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   bool
	}{
		{
			name:   "age restricted",
			stderr: "ERROR: [youtube] abc: This video is age-restricted",
			want:   true,
		},
		{
			name:   "sign in gate",
			stderr: "ERROR: Sign in to confirm your age. This video may be inappropriate for some users.",
			want:   true,
		},
		{
			name:   "inappropriate phrasing only",
			stderr: "This video may be inappropriate for some users",
			want:   true,
		},
		{
			name:   "mixed case",
			stderr: "ERROR: AGE-RESTRICTED content",
			want:   true,
		},
		{
			name:   "generic download failure",
			stderr: "ERROR: unable to download video data: HTTP Error 403",
			want:   false,
		},
		{
			name:   "empty stderr",
			stderr: "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRestricted(tt.stderr))
		})
	}
}
