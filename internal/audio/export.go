package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ExportOptions describes the PCM layout of a written file.
// Zero SampleRate or Channels keep the source value; zero BitDepth means 16.
type ExportOptions struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Validate checks the requested output layout
func (o ExportOptions) Validate() error {
	if o.SampleRate < 0 {
		return fmt.Errorf("sample rate cannot be negative, got %d", o.SampleRate)
	}

	if o.Channels < 0 {
		return fmt.Errorf("channels cannot be negative, got %d", o.Channels)
	}

	switch o.BitDepth {
	case 0, 8, 16, 24, 32:
	default:
		return fmt.Errorf("bit depth must be one of 8, 16, 24, 32, got %d", o.BitDepth)
	}

	return nil
}

func (o ExportOptions) bitDepth() int {
	if o.BitDepth == 0 {
		return 16
	}
	return o.BitDepth
}

// WriteWAV converts the clip per opts and writes it to path as a PCM WAV file.
// A partially written file is removed on failure.
func WriteWAV(path string, clip *Clip, opts ExportOptions) (err error) {
	if err := opts.Validate(); err != nil {
		return err
	}

	if len(clip.Samples) == 0 {
		return fmt.Errorf("write %s: %w", path, ErrEmptyAudio)
	}

	out, err := clip.Convert(opts)
	if err != nil {
		return fmt.Errorf("convert for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()

	bitDepth := opts.bitDepth()
	data := make([]int, len(out.Samples))
	for i, s := range out.Samples {
		data[i] = int16ToInt(s, bitDepth)
	}

	enc := wav.NewEncoder(f, out.SampleRate, bitDepth, out.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: out.Channels, SampleRate: out.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err = enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err = enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

func int16ToInt(s int16, bitDepth int) int {
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		return int(s>>8) + 128
	case 24:
		return int(s) << 8
	case 32:
		return int(s) << 16
	default:
		return int(s)
	}
}
