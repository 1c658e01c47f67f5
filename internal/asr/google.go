package asr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

// GoogleSpeech transcribes audio through the Google Speech-to-Text REST API.
type GoogleSpeech struct {
	svc      *speech.Service
	language string
}

func NewGoogleSpeech(ctx context.Context, apiKey, language string) (*GoogleSpeech, error) {
	svc, err := speech.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	if language == "" {
		language = "en-IN"
	}
	return &GoogleSpeech{svc: svc, language: language}, nil
}

func (g *GoogleSpeech) Transcribe(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: read audio: %v", ErrTranscription, err)
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode:               g.language,
			EnableAutomaticPunctuation: false,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(data),
		},
	}
	resp, err := g.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no speech recognized", ErrTranscription)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
