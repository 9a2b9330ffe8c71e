package wav

import "fmt"

// Header is the decoded form of a canonical 44-byte WAV header.
type Header struct {
	ChunkSize     uint32
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2Size uint32
}

// ParseHeader reads the canonical header at the start of b.
// Only the fixed RIFF/fmt/data layout written by Encode is understood.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" ||
		string(b[12:16]) != "fmt " || string(b[36:40]) != "data" {
		return nil, ErrNotWAV
	}

	return &Header{
		ChunkSize:     le32(b[4:8]),
		Subchunk1Size: le32(b[16:20]),
		AudioFormat:   le16(b[20:22]),
		NumChannels:   le16(b[22:24]),
		SampleRate:    le32(b[24:28]),
		ByteRate:      le32(b[28:32]),
		BlockAlign:    le16(b[32:34]),
		BitsPerSample: le16(b[34:36]),
		Subchunk2Size: le32(b[40:44]),
	}, nil
}

// Format returns the encoding parameters recorded in the header.
func (h *Header) Format() Format {
	return Format{
		NumChannels: int(h.NumChannels),
		SampleRate:  int(h.SampleRate),
		BitDepth:    int(h.BitsPerSample),
	}
}
