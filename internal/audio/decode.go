package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jfreymuth/oggvorbis"
)

// Decoder turns an audio file into in-memory PCM
type Decoder interface {
	Decode(path string) (*Clip, error)
}

// FileDecoder picks a decoder by file extension. WAV, AIFF and OGG Vorbis are
// decoded natively; everything else is transcoded through ffmpeg first.
type FileDecoder struct {
	FFmpeg FFmpeg
}

// Load decodes path with a default FileDecoder
func Load(path string) (*Clip, error) {
	return (&FileDecoder{}).Decode(path)
}

// Decode decodes the file at path into a Clip
func (d *FileDecoder) Decode(path string) (*Clip, error) {
	var (
		clip *Clip
		err  error
	)

	switch formatOf(path) {
	case formatWAV:
		clip, err = decodeWAVFile(path)
	case formatAIFF:
		clip, err = decodeAIFFFile(path)
	case formatOgg:
		clip, err = decodeOggFile(path)
	default:
		clip, err = d.decodeWithFFmpeg(path)
	}
	if err != nil {
		return nil, err
	}

	if len(clip.Samples) == 0 {
		return nil, fmt.Errorf("decode %s: %w", path, ErrEmptyAudio)
	}

	return clip, nil
}

// Duration probes the playback length of the file at path without a full decode
func (d *FileDecoder) Duration(path string) (time.Duration, error) {
	switch formatOf(path) {
	case formatWAV:
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		info, err := ReadWAVInfo(f)
		if err != nil {
			return 0, fmt.Errorf("read WAV header %s: %w", path, err)
		}
		return info.Duration, nil

	case formatAIFF:
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		dec := aiff.NewDecoder(f)
		if !dec.IsValidFile() {
			return 0, fmt.Errorf("%w: %s is not a valid AIFF file", ErrUnsupportedFormat, path)
		}
		return dec.Duration()

	case formatOgg:
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		length, format, err := oggvorbis.GetLength(f)
		if err != nil {
			return 0, fmt.Errorf("read OGG length %s: %w", path, err)
		}
		return FramesToDuration(int(length), format.SampleRate), nil

	default:
		return d.FFmpeg.Duration(path)
	}
}

type fileFormat int

const (
	formatOther fileFormat = iota
	formatWAV
	formatAIFF
	formatOgg
)

func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return formatWAV
	case ".aif", ".aiff", ".aifc", ".aiff-c":
		return formatAIFF
	case ".ogg", ".oga":
		return formatOgg
	default:
		return formatOther
	}
}

func decodeWAVFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrUnsupportedFormat, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode WAV %s: %w", path, err)
	}

	// 8-bit WAV samples are unsigned
	return clipFromIntBuffer(buf, int(dec.BitDepth), true)
}

func decodeAIFFFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid AIFF file", ErrUnsupportedFormat, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode AIFF %s: %w", path, err)
	}

	return clipFromIntBuffer(buf, int(dec.BitDepth), false)
}

func decodeOggFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode OGG %s: %w", path, err)
	}

	samples := make([]int16, len(data))
	for i, v := range data {
		samples[i] = floatToInt16(v)
	}

	return NewClip(samples, format.SampleRate, format.Channels)
}

func (d *FileDecoder) decodeWithFFmpeg(path string) (*Clip, error) {
	tmp, err := os.CreateTemp("", "decode-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create transcode target: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := d.FFmpeg.ToWAV(path, tmpPath); err != nil {
		return nil, err
	}

	return decodeWAVFile(tmpPath)
}

func clipFromIntBuffer(buf *goaudio.IntBuffer, bitDepth int, unsigned8 bool) (*Clip, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("decoder returned no format information")
	}

	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = intToInt16(v, bitDepth, unsigned8)
	}

	return NewClip(samples, buf.Format.SampleRate, buf.Format.NumChannels)
}

func intToInt16(v, bitDepth int, unsigned8 bool) int16 {
	switch {
	case bitDepth == 8 && unsigned8:
		return int16((v - 128) << 8)
	case bitDepth == 8:
		return int16(v << 8)
	case bitDepth > 16:
		return int16(v >> (bitDepth - 16))
	default:
		return int16(v)
	}
}

func floatToInt16(v float32) int16 {
	s := math.Round(float64(v) * 32767)
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}
	return int16(s)
}
