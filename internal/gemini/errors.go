package gemini

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/tts"
)

var (
	// ErrNoCredentials is returned when neither an API key nor ADC is configured.
	ErrNoCredentials = errors.New("gemini: no API key or application default credentials configured")
	// ErrNoAudio is returned when a successful response carries no inline audio.
	ErrNoAudio = errors.New("gemini: response contains no audio")
	// ErrInvalidAudio is returned when the inline audio is not valid base64.
	ErrInvalidAudio = errors.New("gemini: invalid audio payload")
)

// UpstreamError describes a failed or malformed generateContent response.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the API.
	StatusCode int
	// Message is the API's error message, if it sent one.
	Message string
	// Details is the raw response body, kept for diagnostics.
	Details json.RawMessage
	// Err is the underlying cause.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini: upstream status %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("gemini: upstream status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gemini: upstream status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports every upstream failure as a synthesis failure.
func (e *UpstreamError) Is(target error) bool {
	return target == tts.ErrSynthesisFailed
}

// rawDetails keeps body as JSON when it is JSON, otherwise as a JSON string.
func rawDetails(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}
