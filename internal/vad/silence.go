package vad

import (
	"fmt"
	"math"
	"time"
)

// Range is a half-open span of sample frames [Start, End)
type Range struct {
	Start int
	End   int
}

// Len returns the number of frames in the range
func (r Range) Len() int {
	return r.End - r.Start
}

// DetectorConfig configures silence detection
type DetectorConfig struct {
	ThresholdDB float64       // RMS level in dBFS at or below which a window is silent
	MinSilence  time.Duration // Shortest silent region that counts
	KeepSilence time.Duration // Silence kept on each side of a non-silent region
	SeekStep    time.Duration // Hop between analysed windows
}

// DefaultDetectorConfig returns the defaults used for speech recordings
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ThresholdDB: -40,
		MinSilence:  1000 * time.Millisecond,
		KeepSilence: 200 * time.Millisecond,
		SeekStep:    10 * time.Millisecond,
	}
}

// Detector finds silent regions in PCM audio from windowed RMS energy
type Detector struct {
	config DetectorConfig
}

// NewDetector validates config and creates a Detector
func NewDetector(config DetectorConfig) (*Detector, error) {
	if config.ThresholdDB > 0 {
		return nil, fmt.Errorf("threshold must be at most 0 dBFS, got %f", config.ThresholdDB)
	}

	if config.MinSilence <= 0 {
		return nil, fmt.Errorf("min silence must be positive, got %v", config.MinSilence)
	}

	if config.KeepSilence < 0 {
		return nil, fmt.Errorf("keep silence cannot be negative, got %v", config.KeepSilence)
	}

	if config.SeekStep <= 0 {
		return nil, fmt.Errorf("seek step must be positive, got %v", config.SeekStep)
	}

	return &Detector{config: config}, nil
}

// DetectSilence returns the silent ranges of interleaved samples, in frames.
// A window of MinSilence is silent when its RMS is at or below the threshold;
// consecutive silent windows are merged.
func (d *Detector) DetectSilence(samples []int16, sampleRate, channels int) []Range {
	if sampleRate <= 0 || channels <= 0 {
		return nil
	}

	total := len(samples) / channels
	minFrames := toFrames(d.config.MinSilence, sampleRate)
	step := toFrames(d.config.SeekStep, sampleRate)
	if minFrames <= 0 || total < minFrames {
		return nil
	}
	if step <= 0 {
		step = 1
	}

	energy := prefixEnergy(samples, channels)
	threshold := math.Pow(10, d.config.ThresholdDB/20) * 32768
	windowSamples := float64(minFrames * channels)

	isSilent := func(start int) bool {
		sum := energy[start+minFrames] - energy[start]
		return math.Sqrt(sum/windowSamples) <= threshold
	}

	last := total - minFrames
	starts := make([]int, 0)
	for i := 0; i <= last; i += step {
		if isSilent(i) {
			starts = append(starts, i)
		}
	}
	// always check the final window
	if last%step != 0 && isSilent(last) {
		starts = append(starts, last)
	}

	if len(starts) == 0 {
		return nil
	}

	ranges := make([]Range, 0)
	prev := starts[0]
	current := prev
	for _, s := range starts[1:] {
		continuous := s == prev+step
		hasGap := s > prev+minFrames
		if !continuous && hasGap {
			ranges = append(ranges, Range{Start: current, End: prev + minFrames})
			current = s
		}
		prev = s
	}
	ranges = append(ranges, Range{Start: current, End: prev + minFrames})

	return ranges
}

// DetectNonsilent returns the ranges between silent regions.
// Audio without any silence is one range; audio that is silent throughout yields none.
func (d *Detector) DetectNonsilent(samples []int16, sampleRate, channels int) []Range {
	if channels <= 0 {
		return nil
	}
	total := len(samples) / channels

	silent := d.DetectSilence(samples, sampleRate, channels)
	if len(silent) == 0 {
		if total == 0 {
			return nil
		}
		return []Range{{Start: 0, End: total}}
	}

	if len(silent) == 1 && silent[0].Start == 0 && silent[0].End == total {
		return nil
	}

	ranges := make([]Range, 0, len(silent)+1)
	prevEnd := 0
	for _, s := range silent {
		ranges = append(ranges, Range{Start: prevEnd, End: s.Start})
		prevEnd = s.End
	}
	if prevEnd != total {
		ranges = append(ranges, Range{Start: prevEnd, End: total})
	}

	if ranges[0].Start == 0 && ranges[0].End == 0 {
		ranges = ranges[1:]
	}

	return ranges
}

// Split returns the segments to cut the audio into at silent regions, in frames.
// Each non-silent range keeps KeepSilence of padding on both sides and
// overlapping padded ranges meet at their midpoint. When no silent region
// exists there is nowhere to split and Split returns nil.
func (d *Detector) Split(samples []int16, sampleRate, channels int) []Range {
	if len(d.DetectSilence(samples, sampleRate, channels)) == 0 {
		return nil
	}

	nonsilent := d.DetectNonsilent(samples, sampleRate, channels)
	if len(nonsilent) == 0 {
		return nil
	}

	total := len(samples) / channels
	keep := toFrames(d.config.KeepSilence, sampleRate)

	out := make([]Range, len(nonsilent))
	for i, r := range nonsilent {
		out[i] = Range{Start: r.Start - keep, End: r.End + keep}
	}

	for i := 1; i < len(out); i++ {
		if out[i].Start < out[i-1].End {
			mid := (out[i-1].End + out[i].Start) / 2
			out[i-1].End = mid
			out[i].Start = mid
		}
	}

	for i := range out {
		if out[i].Start < 0 {
			out[i].Start = 0
		}
		if out[i].End > total {
			out[i].End = total
		}
	}

	return out
}

// prefixEnergy returns cumulative per-frame sums of squared samples
func prefixEnergy(samples []int16, channels int) []float64 {
	frames := len(samples) / channels
	energy := make([]float64, frames+1)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			v := float64(samples[i*channels+ch])
			sum += v * v
		}
		energy[i+1] = energy[i] + sum
	}
	return energy
}

func toFrames(d time.Duration, sampleRate int) int {
	return int(int64(d) * int64(sampleRate) / int64(time.Second))
}
