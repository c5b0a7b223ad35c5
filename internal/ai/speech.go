package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// OpenAISpeaker produces mp3 narration for lesson text.
type OpenAISpeaker struct {
	client *openai.Client
	model  string
	voice  string
	logger *zap.Logger
}

func NewOpenAISpeaker(apiKey, model, voice string, logger *zap.Logger) *OpenAISpeaker {
	return &OpenAISpeaker{
		client: openai.NewClient(apiKey),
		model:  model,
		voice:  voice,
		logger: logger,
	}
}

func (s *OpenAISpeaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		s.logger.Error("Failed to synthesize speech", zap.Error(err))
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("error reading audio stream: %w", err)
	}

	return audio, nil
}
