package internal

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// TranscriptionClient performs speech-to-text on a single audio file.
type TranscriptionClient interface {
	CreateTranscription(ctx context.Context, file *os.File, model string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateTranscription implements the transcription method.
func (c *OpenAIClient) CreateTranscription(ctx context.Context, file *os.File, model string) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  file,
		Model: audioModel(model),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// audioModel maps a configured model name to the SDK constant.
func audioModel(model string) openai.AudioModel {
	switch model {
	case "gpt-4o-transcribe":
		return openai.AudioModelGPT4oTranscribe
	case "gpt-4o-mini-transcribe":
		return openai.AudioModelGPT4oMiniTranscribe
	default:
		return openai.AudioModelWhisper1
	}
}

// Whisper handles speech-to-text over the OpenAI API, splitting audio
// files that exceed the API upload limit.
type Whisper struct {
	client     TranscriptionClient
	audio      *Audio
	model      string
	limit      int64
	timeout    time.Duration
	verbose    bool
	apiKey     string
	clientOnce sync.Once
}

// NewWhisper creates a transcription processor with an explicit client.
func NewWhisper(client TranscriptionClient, audio *Audio, model string, limit int64, timeout time.Duration, verbose bool) *Whisper {
	return &Whisper{
		client:  client,
		audio:   audio,
		model:   model,
		limit:   limit,
		timeout: timeout,
		verbose: verbose,
	}
}

// NewWhisperWithKey creates a transcription processor with lazy client
// initialization, so commands that never transcribe don't need a key.
func NewWhisperWithKey(apiKey string, audio *Audio, model string, limit int64, timeout time.Duration, verbose bool) *Whisper {
	return &Whisper{
		audio:   audio,
		model:   model,
		limit:   limit,
		timeout: timeout,
		verbose: verbose,
		apiKey:  apiKey,
	}
}

// ensureClient initializes the OpenAI client if needed.
func (w *Whisper) ensureClient() error {
	if w.client != nil {
		return nil
	}

	if w.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}

	w.clientOnce.Do(func() {
		w.client = NewOpenAIClient(w.apiKey)
	})

	return nil
}

// Transcribe converts an audio file to text. Files above the upload limit
// are split into chunks first; chunk files are removed afterwards, the
// source artifact is left for the batch sweep.
func (w *Whisper) Transcribe(ctx context.Context, audioFile string) (string, error) {
	if err := w.ensureClient(); err != nil {
		return "", err
	}

	if w.verbose {
		fmt.Printf("Transcribing audio file: %s\n", audioFile)
	}

	info, err := os.Stat(audioFile)
	if err != nil {
		return "", fmt.Errorf("getting audio file info: %w", err)
	}

	numChunks := int(math.Ceil(float64(info.Size()) / float64(w.limit)))

	chunks := []string{audioFile}
	if numChunks > 1 {
		chunks, err = w.audio.Split(ctx, audioFile, numChunks)
		if err != nil {
			return "", fmt.Errorf("splitting audio: %w", err)
		}
		defer cleanupFiles(chunks...)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	transcript, err := w.transcribeChunks(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}
	return transcript, nil
}

// transcribeChunks transcribes audio chunks one at a time. Uploading
// chunks concurrently returned a garbled transcript once, so keep it
// sequential.
func (w *Whisper) transcribeChunks(ctx context.Context, chunks []string) (string, error) {
	numChunks := len(chunks)

	if w.verbose {
		fmt.Printf("Transcribing chunks (%d)\n", numChunks)
	}

	var sb strings.Builder
	for i, chunkPath := range chunks {
		file, err := os.Open(chunkPath)
		if err != nil {
			return "", fmt.Errorf("opening chunk %s: %w", chunkPath, err)
		}

		text, err := w.client.CreateTranscription(ctx, file, w.model)
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file %s: %v\n", chunkPath, closeErr)
		}
		if err != nil {
			return "", fmt.Errorf("transcribing chunk %d: %w", i+1, err)
		}

		sb.WriteString(text)
		if i < numChunks-1 {
			sb.WriteString("\n")
		}

		if w.verbose {
			fmt.Printf("Transcribed chunk %d/%d\n", i+1, numChunks)
		}
	}

	return sb.String(), nil
}
