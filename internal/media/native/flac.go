package native

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"mediascan/internal/media/probe"
)

type streamInfo struct {
	sampleRate    int
	channels      int
	bitsPerSample int
	totalSamples  uint64
}

// parseStreamInfo decodes the fixed 34-byte STREAMINFO block.
func parseStreamInfo(data []byte) (streamInfo, error) {
	if len(data) < 18 {
		return streamInfo{}, errors.New("flac: short STREAMINFO block")
	}
	info := streamInfo{
		sampleRate:    int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4,
		channels:      int(data[12]>>1&0x07) + 1,
		bitsPerSample: (int(data[12]&0x01)<<4 | int(data[13])>>4) + 1,
		totalSamples:  uint64(data[13]&0x0F)<<32 | uint64(binary.BigEndian.Uint32(data[14:18])),
	}
	return info, nil
}

func (s streamInfo) duration() time.Duration {
	if s.sampleRate <= 0 || s.totalSamples == 0 {
		return 0
	}
	return time.Duration(float64(s.totalSamples) / float64(s.sampleRate) * float64(time.Second))
}

// sampleFormat matches the decoder output format: 16-bit and below decode to
// s16, anything wider to s32.
func (s streamInfo) sampleFormat() string {
	if s.bitsPerSample > 16 {
		return "s32"
	}
	return "s16"
}

func readFLAC(path string) (*probe.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readFLACMetadata(bufio.NewReader(f))
}

// readFLACMetadata stops after the last metadata block; audio frames are
// never read.
func readFLACMetadata(r io.Reader) (*probe.Container, error) {
	file, err := flac.ParseMetadata(r)
	if err != nil {
		return nil, err
	}

	c := &probe.Container{FormatName: "flac", FormatLongName: "raw FLAC"}
	var haveInfo bool
	var pictures []probe.Stream
	for _, block := range file.Meta {
		switch block.Type {
		case flac.StreamInfo:
			info, err := parseStreamInfo(block.Data)
			if err != nil {
				return nil, err
			}
			haveInfo = true
			c.Duration = info.duration()
			c.Streams = append(c.Streams, probe.Stream{
				MediaType:     probe.MediaAudio,
				Codec:         "flac",
				CodecLong:     "FLAC (Free Lossless Audio Codec)",
				SampleFormat:  info.sampleFormat(),
				BitsPerSample: info.bitsPerSample,
				SampleRate:    info.sampleRate,
				Channels:      info.channels,
			})
		case flac.VorbisComment:
			comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				continue
			}
			for _, entry := range comment.Comments {
				key, value, ok := strings.Cut(entry, "=")
				if !ok || key == "" {
					continue
				}
				c.Tags.Add(key, value)
			}
		case flac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				continue
			}
			pictures = append(pictures, attachedPicture(0, pic.MIME, pic.ImageData, pictureComment(pic.PictureType)))
		}
	}
	if !haveInfo {
		return nil, errors.New("flac: missing STREAMINFO")
	}
	for _, pic := range pictures {
		pic.Index = len(c.Streams)
		c.Streams = append(c.Streams, pic)
	}
	return c, nil
}

func pictureComment(kind flacpicture.PictureType) string {
	switch kind {
	case flacpicture.PictureTypeFrontCover:
		return "Cover (front)"
	case flacpicture.PictureTypeBackCover:
		return "Cover (back)"
	default:
		return "Other"
	}
}
