package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello\nworld \n", "hello world"},
		{"no newlines", "no newlines"},
		{"\n\n", ""},
		{"a\nb\nc", "a b c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CollapseText(tt.in))
	}
}

func TestValidateModel(t *testing.T) {
	assert.NoError(t, ValidateModel("whisper-1"))
	assert.NoError(t, ValidateModel("gpt-4o-transcribe"))
	assert.Error(t, ValidateModel("medium.en"))
	assert.Error(t, ValidateModel(""))
}

func TestCleanupTempDir(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "chunks")
	require.NoError(t, os.MkdirAll(tempDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a_chunk_0.mp3"), []byte("x"), 0644))

	require.NoError(t, CleanupTempDir(tempDir))
	assert.False(t, FileExists(filepath.Join(tempDir, "a_chunk_0.mp3")))

	// Missing directory is fine
	assert.NoError(t, CleanupTempDir(filepath.Join(t.TempDir(), "nope")))
}
