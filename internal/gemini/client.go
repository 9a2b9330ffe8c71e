// Package gemini implements speech synthesis on top of the Gemini
// generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/tts"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/wav"
)

// Defaults for the public Gemini API.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-preview-tts"
	DefaultVoice   = "Leda"
	DefaultTimeout = 60 * time.Second
)

// maxResponseBytes bounds the JSON body read from the API.
const maxResponseBytes = 256 << 20

var adcScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/generative-language",
}

// Config holds configuration for the Gemini TTS engine.
type Config struct {
	// APIKey is sent as the x-goog-api-key header.
	APIKey string
	// UseADC enables Application Default Credentials when APIKey is empty.
	UseADC bool
	// Model is the TTS-capable model name.
	Model string
	// BaseURL is the API root, without a trailing slash.
	BaseURL string
	// DefaultVoice is the prebuilt voice used when a request names none.
	DefaultVoice string
	// Timeout bounds a single generateContent call.
	Timeout time.Duration
}

// Client calls generateContent and returns raw PCM. It implements tts.Engine.
type Client struct {
	cfg        Config
	logger     *slog.Logger
	httpClient *http.Client
	endpoint   string
}

// New creates a Gemini client. ctx is only used to resolve ADC credentials.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = DefaultVoice
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var httpClient *http.Client
	switch {
	case cfg.APIKey != "":
		httpClient = &http.Client{}
	case cfg.UseADC:
		c, err := google.DefaultClient(ctx, adcScopes...)
		if err != nil {
			return nil, fmt.Errorf("gemini: application default credentials: %w", err)
		}
		httpClient = c
	default:
		return nil, ErrNoCredentials
	}
	httpClient.Timeout = cfg.Timeout
	httpClient.Transport = &loggingTransport{base: httpClient.Transport, logger: logger}

	return &Client{
		cfg:        cfg,
		logger:     logger,
		httpClient: httpClient,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/models/" + url.PathEscape(cfg.Model) + ":generateContent",
	}, nil
}

// Name returns the engine identifier.
func (c *Client) Name() string {
	return "gemini"
}

// Synthesize implements tts.Engine.
func (c *Client) Synthesize(ctx context.Context, req tts.SynthesizeRequest) (*tts.AudioResult, error) {
	if req.Text == "" {
		return nil, tts.ErrEmptyText
	}

	pcm, format, mimeType, err := c.fetch(ctx, req.Text, req.Voice)
	if err != nil {
		return nil, err
	}

	return &tts.AudioResult{PCM: pcm, Format: format, MimeType: mimeType}, nil
}

// FetchSpeechAudio returns the raw PCM for text spoken by voice and the
// format it was produced in.
func (c *Client) FetchSpeechAudio(ctx context.Context, text, voice string) ([]byte, wav.Format, error) {
	pcm, format, _, err := c.fetch(ctx, text, voice)
	return pcm, format, err
}

func (c *Client) fetch(ctx context.Context, text, voice string) ([]byte, wav.Format, string, error) {
	if voice == "" {
		voice = c.cfg.DefaultVoice
	}

	body, err := json.Marshal(newSpeechRequest(text, voice))
	if err != nil {
		return nil, wav.Format{}, "", fmt.Errorf("gemini: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, wav.Format{}, "", fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wav.Format{}, "", fmt.Errorf("%w: gemini request: %w", tts.ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, wav.Format{}, "", upstreamError(resp.StatusCode, err)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, wav.Format{}, "", fmt.Errorf("%w: gemini read response: %w", tts.ErrSynthesisFailed, err)
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, wav.Format{}, "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Details:    rawDetails(raw),
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	audio := parsed.audioData()
	if audio == nil {
		return nil, wav.Format{}, "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Details:    rawDetails(raw),
			Err:        ErrNoAudio,
		}
	}

	pcm, err := base64.StdEncoding.DecodeString(audio.Data)
	if err != nil {
		return nil, wav.Format{}, "", fmt.Errorf("%w: %w: %v", tts.ErrSynthesisFailed, ErrInvalidAudio, err)
	}

	format := formatFromMimeType(audio.MimeType)

	c.logger.Debug("gemini speech generated",
		"model", c.cfg.Model,
		"voice", voice,
		"text_length", len(text),
		"pcm_bytes", len(pcm),
		"mime_type", audio.MimeType,
		"elapsed", time.Since(start),
	)

	return pcm, format, audio.MimeType, nil
}

// upstreamError converts a googleapi error into an UpstreamError.
func upstreamError(status int, err error) error {
	ue := &UpstreamError{StatusCode: status, Err: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		ue.StatusCode = gerr.Code
		ue.Message = gerr.Message
		ue.Details = rawDetails([]byte(gerr.Body))
	}

	return ue
}

// formatFromMimeType reads the sample rate from an L16 media type such as
// "audio/L16;codec=pcm;rate=24000". Gemini audio is always mono 16-bit.
func formatFromMimeType(mimeType string) wav.Format {
	format := wav.GeminiFormat
	if mimeType == "" {
		return format
	}

	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return format
	}
	if rate, err := strconv.Atoi(params["rate"]); err == nil && rate > 0 {
		format.SampleRate = rate
	}

	return format
}
