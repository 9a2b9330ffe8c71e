package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/gemini"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/tts"
)

// maxBodyBytes bounds POST bodies on /api/tts.
const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid JSON body")

// TTSRequest represents the JSON request body for POST /api/tts.
type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

// HealthResponse represents the response body for /v1/healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine,omitempty"`
}

// handleHealthz handles GET /v1/healthz requests.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.engine != nil {
		resp.Engine = s.engine.Name()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTTS handles GET and POST /api/tts requests.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), s.logger)

	// GET patterns also match HEAD; never synthesize audio nobody will receive.
	if r.Method == http.MethodHead {
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	req, err := parseTTSRequest(r)
	if err != nil {
		logger.Warn("failed to decode tts request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errInvalidBody.Error()})
		return
	}

	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing text parameter"})
		return
	}

	if n := utf8.RuneCountInString(req.Text); n > s.cfg.MaxTextLength {
		logger.Warn("text exceeds max length", "length", n, "max", s.cfg.MaxTextLength)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "text exceeds maximum length"})
		return
	}

	voice := req.Voice
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}

	result, err := s.engine.Synthesize(r.Context(), tts.SynthesizeRequest{Text: req.Text, Voice: voice})
	if err != nil {
		var ue *gemini.UpstreamError
		if errors.As(err, &ue) {
			logger.Error("TTS API failed", "engine", s.engine.Name(), "status", ue.StatusCode, "error", err, "details", string(ue.Details))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "TTS API failed", Details: ue.Details})
			return
		}
		logger.Error("TTS error", "engine", s.engine.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	body, err := result.WAV()
	if err != nil {
		logger.Error("failed to encode wav", "error", err, "pcm_bytes", len(result.PCM))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info("speech synthesized",
		"voice", voice,
		"text_length", len(req.Text),
		"pcm_bytes", len(result.PCM),
		"sample_rate", result.Format.SampleRate,
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", s.cacheControl())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) cacheControl() string {
	if s.cfg.CacheMaxAge <= 0 {
		return "no-store"
	}
	return fmt.Sprintf("public, max-age=%d", int(s.cfg.CacheMaxAge.Seconds()))
}

// parseTTSRequest reads text and voice from the query string, falling back
// to a JSON or form body on POST. Query parameters win.
func parseTTSRequest(r *http.Request) (TTSRequest, error) {
	q := r.URL.Query()
	req := TTSRequest{Text: q.Get("text"), Voice: q.Get("voice")}

	if r.Method != http.MethodPost || r.Body == nil || (req.Text != "" && req.Voice != "") {
		return req, nil
	}

	var body TTSRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		body.Text = r.PostFormValue("text")
		body.Voice = r.PostFormValue("voice")
	default:
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			// An unreadable body only matters when it is the sole source of text.
			if req.Text != "" {
				return req, nil
			}
			return req, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
	}

	if req.Text == "" {
		req.Text = body.Text
	}
	if req.Voice == "" {
		req.Voice = body.Voice
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
