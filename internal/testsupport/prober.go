package testsupport

import (
	"context"
	"path/filepath"
	"sync"

	"mediascan/internal/media/probe"
)

// StaticProber serves canned containers keyed by file base name.
type StaticProber struct {
	mu         sync.Mutex
	Containers map[string]*probe.Container
	Err        error
	Calls      []string
}

// Probe returns a copy of the container registered for path's base name, or
// probe.ErrUnsupported.
func (p *StaticProber) Probe(ctx context.Context, path string) (*probe.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.Calls = append(p.Calls, path)
	p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	c, ok := p.Containers[filepath.Base(path)]
	if !ok {
		return nil, probe.ErrUnsupported
	}
	clone := *c
	clone.Path = path
	clone.Streams = append([]probe.Stream(nil), c.Streams...)
	clone.Tags = append(probe.Tags(nil), c.Tags...)
	return &clone, nil
}

// AudioStream returns a minimal audio stream descriptor.
func AudioStream(codec string, tags ...probe.Tag) probe.Stream {
	return probe.Stream{
		Index:        0,
		MediaType:    probe.MediaAudio,
		Codec:        codec,
		SampleFormat: "s16",
		SampleRate:   44100,
		Channels:     2,
		Tags:         probe.Tags(tags),
	}
}
