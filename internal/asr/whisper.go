package asr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
)

// Whisper runs a local whisper CLI binary over the uploaded file. The CLI
// shells out to ffmpeg for decoding, so both must be on PATH.
type Whisper struct {
	bin    string
	model  string
	logger *log.Logger
}

func NewWhisper(bin, model string, logger *log.Logger) (*Whisper, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("whisper binary %q not found: %w", bin, err)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found, whisper cannot decode audio: %w", err)
	}
	return &Whisper{bin: bin, model: model, logger: logger.WithComponent(log.ComponentASR)}, nil
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outDir, err := os.MkdirTemp("", "whisper-out-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, w.bin, audioPath,
		"--model", w.model,
		"--output_format", "txt",
		"--output_dir", outDir,
		"--fp16", "False",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		w.logger.Error("whisper run failed",
			log.FieldError, err,
			"output", truncate(string(out), 512),
		)
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	text, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("%w: read transcript: %v", ErrTranscription, err)
	}
	return strings.TrimSpace(string(text)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
