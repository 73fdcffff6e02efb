package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupported is returned by a backend that cannot read the given input.
var ErrUnsupported = errors.New("probe: unsupported format")

// MediaType classifies a stream.
type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

// ParseMediaType normalizes backend stream type labels.
func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio":
		return MediaAudio
	case "video":
		return MediaVideo
	default:
		return MediaOther
	}
}

// Disposition holds stream disposition flags as reported by the demuxer.
type Disposition map[string]int

// AttachedPic reports whether the stream is embedded cover art.
func (d Disposition) AttachedPic() bool {
	return d["attached_pic"] == 1
}

// Stream describes one elementary stream.
type Stream struct {
	Index         int
	MediaType     MediaType
	Codec         string
	CodecLong     string
	Profile       string
	SampleFormat  string
	BitsPerSample int
	SampleRate    int
	Channels      int
	ChannelLayout string
	Width         int
	Height        int
	Disposition   Disposition
	Tags          Tags
}

// IsAudio reports whether the stream carries audio.
func (s Stream) IsAudio() bool { return s.MediaType == MediaAudio }

// IsVideo reports whether the stream carries video, including cover art.
func (s Stream) IsVideo() bool { return s.MediaType == MediaVideo }

// Container is everything a backend learned about one input.
type Container struct {
	Path           string
	FormatName     string
	FormatLongName string
	Duration       time.Duration
	// BitRate is in bits per second; zero when the demuxer did not report it.
	BitRate int64
	Size    int64
	Tags    Tags
	Streams []Stream
	Backend string
}

// AudioStreamCount returns the number of audio streams.
func (c *Container) AudioStreamCount() int {
	return c.countStreams(MediaAudio)
}

// VideoStreamCount returns the number of video streams, cover art included.
func (c *Container) VideoStreamCount() int {
	return c.countStreams(MediaVideo)
}

func (c *Container) countStreams(kind MediaType) int {
	if c == nil {
		return 0
	}
	count := 0
	for _, s := range c.Streams {
		if s.MediaType == kind {
			count++
		}
	}
	return count
}

// Prober reads a container description from a path or URL.
type Prober interface {
	Probe(ctx context.Context, path string) (*Container, error)
}

// Auto tries Primary first and falls back to Fallback when Primary reports
// ErrUnsupported.
type Auto struct {
	Primary  Prober
	Fallback Prober
}

// Probe implements Prober.
func (a Auto) Probe(ctx context.Context, path string) (*Container, error) {
	if a.Primary != nil {
		c, err := a.Primary.Probe(ctx, path)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrUnsupported) || a.Fallback == nil {
			return nil, err
		}
	}
	if a.Fallback == nil {
		return nil, fmt.Errorf("probe %s: no backend configured", path)
	}
	return a.Fallback.Probe(ctx, path)
}
