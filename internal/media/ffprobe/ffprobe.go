package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"mediascan/internal/media/probe"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index            int            `json:"index"`
	CodecName        string         `json:"codec_name"`
	CodecLong        string         `json:"codec_long_name"`
	Profile          string         `json:"profile"`
	CodecType        string         `json:"codec_type"`
	CodecTag         string         `json:"codec_tag_string"`
	SampleFmt        string         `json:"sample_fmt"`
	BitsPerSample    int            `json:"bits_per_sample"`
	BitsPerRawSample string         `json:"bits_per_raw_sample"`
	Duration         string         `json:"duration"`
	BitRate          string         `json:"bit_rate"`
	Width            int            `json:"width"`
	Height           int            `json:"height"`
	SampleRate       string         `json:"sample_rate"`
	Channels         int            `json:"channels"`
	ChannelLayout    string         `json:"channel_layout"`
	Disposition      map[string]int `json:"disposition"`
	Tags             probe.Tags     `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename       string     `json:"filename"`
	NBStreams      int        `json:"nb_streams"`
	Duration       string     `json:"duration"`
	Size           string     `json:"size"`
	BitRate        string     `json:"bit_rate"`
	FormatName     string     `json:"format_name"`
	FormatLongName string     `json:"format_long_name"`
	Tags           probe.Tags `json:"tags"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
// extraArgs are inserted before the input separator, e.g. protocol options.
func Inspect(ctx context.Context, binary string, path string, extraArgs ...string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	args := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json"}
	args = append(args, extraArgs...)
	args = append(args, "--", path)
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	return Parse(output)
}

// Parse decodes a saved ffprobe JSON document.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	result.raw = append([]byte(nil), data...)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			count++
		}
	}
	return count
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

// Container converts the result into the backend-neutral description.
func (r Result) Container(path string) *probe.Container {
	c := &probe.Container{
		Path:           path,
		FormatName:     r.Format.FormatName,
		FormatLongName: r.Format.FormatLongName,
		BitRate:        r.BitRate(),
		Size:           r.SizeBytes(),
		Tags:           r.Format.Tags,
		Backend:        "ffprobe",
	}
	if secs := r.DurationSeconds(); secs > 0 && !math.IsNaN(secs) {
		c.Duration = time.Duration(secs * float64(time.Second))
	}
	c.Streams = make([]probe.Stream, 0, len(r.Streams))
	for _, s := range r.Streams {
		c.Streams = append(c.Streams, s.toProbe())
	}
	return c
}

func (s Stream) toProbe() probe.Stream {
	bits := s.BitsPerSample
	if bits == 0 {
		if raw, err := strconv.Atoi(strings.TrimSpace(s.BitsPerRawSample)); err == nil {
			bits = raw
		}
	}
	rate := 0
	if parsed := parseFloat(s.SampleRate); parsed > 0 && !math.IsNaN(parsed) {
		rate = int(parsed)
	}
	return probe.Stream{
		Index:         s.Index,
		MediaType:     probe.ParseMediaType(s.CodecType),
		Codec:         s.CodecName,
		CodecLong:     s.CodecLong,
		Profile:       s.Profile,
		SampleFormat:  s.SampleFmt,
		BitsPerSample: bits,
		SampleRate:    rate,
		Channels:      s.Channels,
		ChannelLayout: s.ChannelLayout,
		Width:         s.Width,
		Height:        s.Height,
		Disposition:   probe.Disposition(s.Disposition),
		Tags:          s.Tags,
	}
}

// Prober runs the ffprobe binary for every input.
type Prober struct {
	Binary string
	Args   []string
}

// Probe implements probe.Prober.
func (p Prober) Probe(ctx context.Context, path string) (*probe.Container, error) {
	result, err := Inspect(ctx, p.Binary, path, p.Args...)
	if err != nil {
		return nil, err
	}
	return result.Container(path), nil
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
