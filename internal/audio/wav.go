package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// WAVHeader represents the canonical 44-byte header of a PCM WAV file
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// EncodeWAV encodes interleaved PCM-16 samples into an in-memory WAV file
func EncodeWAV(samples []int16, sampleRate, channels int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples: %w", ErrEmptyAudio)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}

	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(samples) * 2)

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))

	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	return buf.Bytes(), nil
}

// WAV encodes the clip as an in-memory WAV file
func (c *Clip) WAV() ([]byte, error) {
	return EncodeWAV(c.Samples, c.SampleRate, c.Channels)
}

// WAVInfo contains the format description and data size of a WAV file
type WAVInfo struct {
	AudioFormat   uint16        `json:"audio_format"`
	SampleRate    uint32        `json:"sample_rate"`
	Channels      uint16        `json:"channels"`
	BitsPerSample uint16        `json:"bits_per_sample"`
	DataSize      uint32        `json:"data_size_bytes"`
	NumFrames     uint32        `json:"num_frames"`
	Duration      time.Duration `json:"duration"`
}

// ReadWAVInfo reads WAV metadata by walking the RIFF chunk list.
// Sample data is skipped, so this is cheap even for long recordings.
func ReadWAVInfo(r io.Reader) (*WAVInfo, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}

	if string(riff[0:4]) != "RIFF" {
		return nil, fmt.Errorf("%w: missing RIFF header", ErrUnsupportedFormat)
	}

	if string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing WAVE format", ErrUnsupportedFormat)
	}

	var info *WAVInfo
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return nil, fmt.Errorf("invalid WAV file: missing data chunk: %w", err)
		}

		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("invalid WAV file: fmt chunk too short (%d bytes)", size)
			}
			body := make([]byte, size+size&1)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			info = &WAVInfo{
				AudioFormat:   binary.LittleEndian.Uint16(body[0:2]),
				Channels:      binary.LittleEndian.Uint16(body[2:4]),
				SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
				BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
			}

		case "data":
			if info == nil {
				return nil, fmt.Errorf("invalid WAV file: data chunk before fmt chunk")
			}
			if info.SampleRate == 0 {
				return nil, fmt.Errorf("invalid sample rate: 0")
			}
			blockAlign := uint32(info.Channels) * uint32(info.BitsPerSample) / 8
			if blockAlign == 0 {
				return nil, fmt.Errorf("invalid WAV file: zero block alignment")
			}
			info.DataSize = size
			info.NumFrames = size / blockAlign
			info.Duration = FramesToDuration(int(info.NumFrames), int(info.SampleRate))
			return info, nil

		default:
			if _, err := io.CopyN(io.Discard, r, int64(size+size&1)); err != nil {
				return nil, fmt.Errorf("failed to skip %q chunk: %w", id, err)
			}
		}
	}
}
