// Package wav builds canonical 44-byte RIFF/WAVE containers around raw PCM.
package wav

import (
	"errors"
	"fmt"
	"math"
)

// WAV format constants.
const (
	// HeaderSize is the size of a canonical WAV file header in bytes.
	HeaderSize = 44

	// FormatPCM is the audio format code for uncompressed PCM.
	FormatPCM = 1

	fmtChunkSize = 16
	// riffOverhead is the part of HeaderSize counted in ChunkSize.
	riffOverhead = HeaderSize - 8
)

// PCM layout returned by the Gemini TTS models.
const (
	// GeminiSampleRate is the sample rate of Gemini TTS audio (24000 Hz).
	GeminiSampleRate = 24000

	// GeminiChannels is the channel count of Gemini TTS audio (mono).
	GeminiChannels = 1

	// GeminiBitsPerSample is the bit depth of Gemini TTS audio (16-bit).
	GeminiBitsPerSample = 16
)

var (
	// ErrInvalidFormat is returned when encoding parameters cannot be represented in a WAV header.
	ErrInvalidFormat = errors.New("invalid wav format")
	// ErrPayloadTooLarge is returned when the PCM payload overflows the 32-bit size fields.
	ErrPayloadTooLarge = errors.New("pcm payload too large for wav container")
	// ErrShortHeader is returned when fewer than HeaderSize bytes are available.
	ErrShortHeader = errors.New("wav header too short")
	// ErrNotWAV is returned when the chunk identifiers are not RIFF/WAVE/fmt /data.
	ErrNotWAV = errors.New("not a canonical wav file")
)

// Format describes how a PCM payload was produced.
type Format struct {
	NumChannels int
	SampleRate  int
	BitDepth    int
}

// GeminiFormat is the format of PCM returned by Gemini TTS.
var GeminiFormat = Format{
	NumChannels: GeminiChannels,
	SampleRate:  GeminiSampleRate,
	BitDepth:    GeminiBitsPerSample,
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.NumChannels * f.BitDepth / 8
}

// BlockAlign returns the number of bytes in one frame across all channels.
func (f Format) BlockAlign() int {
	return f.NumChannels * f.BitDepth / 8
}

// Validate reports whether f can be written to a WAV header without truncation.
func (f Format) Validate() error {
	switch {
	case f.NumChannels < 1:
		return fmt.Errorf("%w: channels %d", ErrInvalidFormat, f.NumChannels)
	case f.SampleRate < 1:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, f.SampleRate)
	case f.BitDepth < 8 || f.BitDepth%8 != 0:
		return fmt.Errorf("%w: bit depth %d", ErrInvalidFormat, f.BitDepth)
	case f.NumChannels > math.MaxUint16 || f.BitDepth > math.MaxUint16 || f.BlockAlign() > math.MaxUint16:
		return fmt.Errorf("%w: channels %d x bit depth %d overflows 16 bits", ErrInvalidFormat, f.NumChannels, f.BitDepth)
	case int64(f.SampleRate) > math.MaxUint32 || int64(f.SampleRate)*int64(f.BlockAlign()) > math.MaxUint32:
		return fmt.Errorf("%w: byte rate for %d Hz overflows 32 bits", ErrInvalidFormat, f.SampleRate)
	}
	return nil
}

// Wrap validates f and the payload size, then returns Encode's output.
func (f Format) Wrap(pcm []byte) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := checkPayloadSize(uint64(len(pcm))); err != nil {
		return nil, err
	}
	return Encode(pcm, f.NumChannels, f.SampleRate, f.BitDepth), nil
}

// checkPayloadSize reports whether n bytes of PCM fit the 32-bit RIFF size field.
func checkPayloadSize(n uint64) error {
	if n+riffOverhead > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, n)
	}
	return nil
}

// Encode prepends a canonical WAV header to raw little-endian PCM data.
// Parameters:
//   - pcm: raw PCM audio data bytes, copied verbatim after the header
//   - numChannels: number of interleaved channels (1=mono, 2=stereo)
//   - sampleRate: samples per second per channel (e.g., 24000, 44100)
//   - bitDepth: bits per sample (typically 16)
//
// Parameters are not validated; use Format.Wrap for a checked variant.
// The result always has length HeaderSize+len(pcm) and never aliases pcm.
func Encode(pcm []byte, numChannels, sampleRate, bitDepth int) []byte {
	f := Format{NumChannels: numChannels, SampleRate: sampleRate, BitDepth: bitDepth}
	dataSize := len(pcm)

	out := make([]byte, HeaderSize, HeaderSize+dataSize)

	// RIFF header
	copy(out[0:4], "RIFF")
	PutLE32(out[4:8], uint32(riffOverhead+dataSize))
	copy(out[8:12], "WAVE")

	// fmt subchunk
	copy(out[12:16], "fmt ")
	PutLE32(out[16:20], fmtChunkSize)
	PutLE16(out[20:22], FormatPCM)
	PutLE16(out[22:24], uint16(numChannels))
	PutLE32(out[24:28], uint32(sampleRate))
	PutLE32(out[28:32], uint32(f.ByteRate()))
	PutLE16(out[32:34], uint16(f.BlockAlign()))
	PutLE16(out[34:36], uint16(bitDepth))

	// data subchunk
	copy(out[36:40], "data")
	PutLE32(out[40:44], uint32(dataSize))

	return append(out, pcm...)
}

// PutLE16 writes a uint16 value in little-endian format to a byte slice.
func PutLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// PutLE32 writes a uint32 value in little-endian format to a byte slice.
func PutLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
