// Command gemini-tts synthesizes one utterance with Gemini and writes it as a WAV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/dgnsrekt/gemini-tts-proxy/internal/config"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/gemini"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/logging"
	"github.com/dgnsrekt/gemini-tts-proxy/internal/tts"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

var errNoText = errors.New("no text given (use -text or pipe text on stdin)")

type options struct {
	text   string
	voice  string
	output string
}

func parseArgs(args []string, stdin io.Reader) (options, error) {
	var opts options

	fs := flag.NewFlagSet("gemini-tts", flag.ContinueOnError)
	fs.StringVar(&opts.text, "text", "", "text to speak (default: read from stdin)")
	fs.StringVar(&opts.voice, "voice", "", "prebuilt voice name (default: DEFAULT_VOICE)")
	fs.StringVar(&opts.output, "o", "speech.wav", "output WAV file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.text == "" && fs.NArg() > 0 {
		opts.text = strings.Join(fs.Args(), " ")
	}
	if opts.text == "" && stdin != nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return opts, fmt.Errorf("read stdin: %w", err)
		}
		opts.text = strings.TrimSpace(string(b))
	}
	if opts.text == "" {
		return opts, errNoText
	}

	return opts, nil
}

func run(ctx context.Context, opts options, engine tts.Engine) (int, error) {
	start := time.Now()
	result, err := engine.Synthesize(ctx, tts.SynthesizeRequest{Text: opts.text, Voice: opts.voice})
	if err != nil {
		var ue *gemini.UpstreamError
		if errors.As(err, &ue) && len(ue.Details) > 0 {
			yellow.Fprintln(os.Stderr, "upstream response:", string(ue.Details))
		}
		return 0, err
	}

	out, err := result.WAV()
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", opts.output, err)
	}

	green.Printf("wrote %s ", opts.output)
	fmt.Printf("(%d bytes, %d Hz, %s)\n", len(out), result.Format.SampleRate, time.Since(start).Round(time.Millisecond))
	return len(out), nil
}

func main() {
	var stdin io.Reader
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		stdin = os.Stdin
	}

	opts, err := parseArgs(os.Args[1:], stdin)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		red.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		red.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := gemini.New(ctx, gemini.Config{
		APIKey:       cfg.GeminiAPIKey,
		UseADC:       cfg.GeminiUseADC,
		Model:        cfg.GeminiModel,
		BaseURL:      cfg.GeminiBaseURL,
		DefaultVoice: cfg.DefaultVoice,
		Timeout:      cfg.GeminiTimeout,
	}, logger)
	if err != nil {
		red.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if _, err := run(ctx, opts, engine); err != nil {
		red.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
