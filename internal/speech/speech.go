// Package speech turns voice recordings into text. It is a capability, not
// a requirement: when no transcription backend is configured the bot runs
// with voice input disabled rather than failing.
package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

type Transcriber struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Transcriber {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Transcriber{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Transcribe converts one voice recording to text. filename is only used to
// hint the container format (.ogg for Telegram voice notes).
func (t *Transcriber) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return resp.Text, nil
}
