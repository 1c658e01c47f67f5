// Package asr turns uploaded audio into text. Three backends are supported:
// a local whisper CLI, the Google Speech-to-Text API, and a passthrough for
// clients that run recognition on-device and send the transcript themselves.
package asr

import (
	"context"
	"errors"
)

// ErrTranscription wraps any backend failure so handlers can map it to a
// single error response.
var ErrTranscription = errors.New("transcription failed")

// ErrClientTranscript is returned by the client backend when audio arrives
// without an accompanying transcript.
var ErrClientTranscript = errors.New("backend expects client-supplied transcripts")

// Transcriber converts an audio file on disk into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// ClientProvided is the backend for deployments where the browser performs
// speech recognition. It never transcribes server-side.
type ClientProvided struct{}

func (ClientProvided) Transcribe(context.Context, string) (string, error) {
	return "", ErrClientTranscript
}
