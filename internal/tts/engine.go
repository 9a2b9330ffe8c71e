package tts

import (
	"context"
	"errors"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/wav"
)

var (
	// ErrEmptyText is returned when synthesis is requested for empty text.
	ErrEmptyText = errors.New("text is required")
	// ErrSynthesisFailed is returned when TTS synthesis fails.
	ErrSynthesisFailed = errors.New("TTS synthesis failed")
)

// SynthesizeRequest contains parameters for TTS synthesis.
type SynthesizeRequest struct {
	Text  string
	Voice string
}

// AudioResult represents synthesized audio output.
type AudioResult struct {
	// PCM contains raw little-endian linear PCM, interleaved by channel.
	PCM []byte
	// Format describes how PCM was produced.
	Format wav.Format
	// MimeType is the upstream media type, if any (e.g., "audio/L16;codec=pcm;rate=24000").
	MimeType string
}

// WAV returns the PCM wrapped in a canonical WAV container.
func (a *AudioResult) WAV() ([]byte, error) {
	return a.Format.Wrap(a.PCM)
}

// Engine is the interface for text-to-speech synthesis.
type Engine interface {
	// Synthesize converts text to raw PCM audio.
	Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error)
	// Name returns the engine identifier.
	Name() string
}
