package native

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mediascan/internal/media/probe"
)

type format int

const (
	formatUnknown format = iota
	formatFLAC
	formatMP3
	formatMP4
)

// Prober reads supported containers directly from disk.
type Prober struct{}

// Probe implements probe.Prober.
func (Prober) Probe(ctx context.Context, path string) (*probe.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("native %s: %w", path, probe.ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("native open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("native stat: %w", err)
	}

	head := make([]byte, 12)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("native %s: %w", path, probe.ErrUnsupported)
	}
	head = head[:n]

	var c *probe.Container
	switch sniff(head, path) {
	case formatFLAC:
		c, err = readFLAC(path)
	case formatMP3:
		c, err = readMP3(f, info.Size())
	case formatMP4:
		c, err = readMP4(f)
	default:
		return nil, fmt.Errorf("native %s: %w", path, probe.ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("native %s: %w", path, err)
	}
	c.Path = path
	c.Size = info.Size()
	c.Backend = "native"
	return c, nil
}

func sniff(head []byte, path string) format {
	switch {
	case len(head) >= 4 && string(head[:4]) == "fLaC":
		return formatFLAC
	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		return formatMP4
	case len(head) >= 3 && string(head[:3]) == "ID3":
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			return formatMP3
		}
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return formatMP3
	}
	return formatUnknown
}

// pictureCodec maps an image MIME type onto the decoder name ffprobe reports
// for attached pictures.
func pictureCodec(mime string, data []byte) string {
	mime = strings.ToLower(mime)
	switch {
	case strings.Contains(mime, "png"):
		return "png"
	case strings.Contains(mime, "jpeg"), strings.Contains(mime, "jpg"):
		return "mjpeg"
	case strings.Contains(mime, "bmp"):
		return "bmp"
	case len(data) >= 8 && string(data[1:4]) == "PNG":
		return "png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "mjpeg"
	}
	return "mjpeg"
}

func attachedPicture(index int, mime string, data []byte, comment string) probe.Stream {
	s := probe.Stream{
		Index:       index,
		MediaType:   probe.MediaVideo,
		Codec:       pictureCodec(mime, data),
		Disposition: probe.Disposition{"attached_pic": 1},
	}
	if comment != "" {
		s.Tags = probe.Tags{{Key: "comment", Value: comment}}
	}
	return s
}
