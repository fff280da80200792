package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperLoader builds models backed by the OpenAI transcription API.
type WhisperLoader struct {
	apiKey string
}

func NewWhisperLoader() *WhisperLoader {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &WhisperLoader{apiKey: apiKey}
}

func (l *WhisperLoader) Load(ctx context.Context, name string) (Model, error) {
	if name == "" {
		name = openai.Whisper1
	}
	return &whisperModel{
		client: openai.NewClient(l.apiKey),
		model:  name,
	}, nil
}

type whisperModel struct {
	client *openai.Client
	model  string
}

func (m *whisperModel) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    m.model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}
