package audio

import (
	"fmt"
	"math"
	"time"
)

// Clip is decoded 16-bit PCM audio held in memory. Samples are interleaved by channel.
type Clip struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// NewClip validates the format and wraps samples into a Clip
func NewClip(samples []int16, sampleRate, channels int) (*Clip, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}

	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("sample count %d is not a multiple of channel count %d", len(samples), channels)
	}

	return &Clip{Samples: samples, SampleRate: sampleRate, Channels: channels}, nil
}

// Frames returns the number of sample frames (one sample per channel)
func (c *Clip) Frames() int {
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length of the clip
func (c *Clip) Duration() time.Duration {
	return FramesToDuration(c.Frames(), c.SampleRate)
}

// FramesToDuration converts a frame count at the given sample rate into a duration
func FramesToDuration(frames, sampleRate int) time.Duration {
	return time.Duration(int64(frames) * int64(time.Second) / int64(sampleRate))
}

// DurationToFrames converts a duration into a frame count at the given sample rate
func DurationToFrames(d time.Duration, sampleRate int) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}

// SliceFrames returns a copy of the frames in [start, end), clamped to the clip bounds
func (c *Clip) SliceFrames(start, end int) *Clip {
	total := c.Frames()
	start = clamp(start, 0, total)
	end = clamp(end, start, total)

	samples := make([]int16, (end-start)*c.Channels)
	copy(samples, c.Samples[start*c.Channels:end*c.Channels])

	return &Clip{Samples: samples, SampleRate: c.SampleRate, Channels: c.Channels}
}

// Mono mixes all channels down to one by averaging
func (c *Clip) Mono() *Clip {
	if c.Channels == 1 {
		return c
	}

	frames := c.Frames()
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var sum int
		for ch := 0; ch < c.Channels; ch++ {
			sum += int(c.Samples[i*c.Channels+ch])
		}
		out[i] = int16(sum / c.Channels)
	}

	return &Clip{Samples: out, SampleRate: c.SampleRate, Channels: 1}
}

// WithChannels returns the clip with the requested channel count.
// Only down-mixing to mono and up-mixing from mono are supported.
func (c *Clip) WithChannels(channels int) (*Clip, error) {
	switch {
	case channels == c.Channels:
		return c, nil
	case channels == 1:
		return c.Mono(), nil
	case c.Channels == 1 && channels > 1:
		frames := c.Frames()
		out := make([]int16, frames*channels)
		for i := 0; i < frames; i++ {
			for ch := 0; ch < channels; ch++ {
				out[i*channels+ch] = c.Samples[i]
			}
		}
		return &Clip{Samples: out, SampleRate: c.SampleRate, Channels: channels}, nil
	default:
		return nil, fmt.Errorf("cannot remix %d channels into %d", c.Channels, channels)
	}
}

// Resample converts the clip to the target sample rate using linear interpolation
func (c *Clip) Resample(rate int) *Clip {
	if rate <= 0 || rate == c.SampleRate || c.Frames() == 0 {
		return c
	}

	inFrames := c.Frames()
	outFrames := int(int64(inFrames) * int64(rate) / int64(c.SampleRate))
	out := make([]int16, outFrames*c.Channels)
	ratio := float64(c.SampleRate) / float64(rate)

	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		i0 := int(pos)
		i1 := i0 + 1
		if i1 >= inFrames {
			i1 = inFrames - 1
		}
		frac := pos - float64(i0)

		for ch := 0; ch < c.Channels; ch++ {
			a := float64(c.Samples[i0*c.Channels+ch])
			b := float64(c.Samples[i1*c.Channels+ch])
			out[i*c.Channels+ch] = int16(math.Round(a + (b-a)*frac))
		}
	}

	return &Clip{Samples: out, SampleRate: rate, Channels: c.Channels}
}

// Convert applies the sample rate and channel layout from opts; zero fields keep the source value
func (c *Clip) Convert(opts ExportOptions) (*Clip, error) {
	out := c
	if opts.Channels > 0 {
		var err error
		if out, err = out.WithChannels(opts.Channels); err != nil {
			return nil, err
		}
	}

	if opts.SampleRate > 0 {
		out = out.Resample(opts.SampleRate)
	}

	return out, nil
}

// PCM16LE returns the samples as raw little-endian bytes
func (c *Clip) PCM16LE() []byte {
	out := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(uint16(s) >> 8)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
