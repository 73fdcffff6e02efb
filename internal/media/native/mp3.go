package native

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"

	"mediascan/internal/media/probe"
)

// frameSearchWindow bounds how far past the tag the first frame sync may be.
const frameSearchWindow = 64 * 1024

// id3Keys maps ID3v2.3/2.4 frames onto the names the ffmpeg demuxer uses.
// Frames missing here keep their frame ID.
var id3Keys = map[string]string{
	"TALB": "album",
	"TCOM": "composer",
	"TCON": "genre",
	"TCOP": "copyright",
	"TENC": "encoded_by",
	"TIT2": "title",
	"TLAN": "language",
	"TPE1": "artist",
	"TPE2": "album_artist",
	"TPE3": "performer",
	"TPOS": "disc",
	"TPUB": "publisher",
	"TRCK": "track",
	"TSSE": "encoder",
	"TDRC": "date",
	"TDRL": "date",
	"TYER": "date",
	"TDEN": "creation_time",
	"TSOA": "album-sort",
	"TSOP": "artist-sort",
	"TSOT": "title-sort",
	"TCMP": "compilation",
}

var (
	mpeg1Bitrates = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	mpeg2Bitrates = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
	sampleRates   = map[uint32][3]int{
		3: {44100, 48000, 32000}, // MPEG1
		2: {22050, 24000, 16000}, // MPEG2
		0: {11025, 12000, 8000},  // MPEG2.5
	}
)

type mpegFrame struct {
	version    uint32
	bitrate    int
	sampleRate int
	channels   int
}

func (f mpegFrame) samplesPerFrame() int {
	if f.version == 3 {
		return 1152
	}
	return 576
}

// sideInfoSize is the Layer III side information length that precedes a
// Xing/Info header in the first frame.
func (f mpegFrame) sideInfoSize() int64 {
	switch {
	case f.version == 3 && f.channels == 1:
		return 17
	case f.version == 3:
		return 32
	case f.channels == 1:
		return 9
	default:
		return 17
	}
}

func parseFrameHeader(header uint32) (mpegFrame, bool) {
	if header&0xFFE00000 != 0xFFE00000 {
		return mpegFrame{}, false
	}
	version := (header >> 19) & 0x3
	layer := (header >> 17) & 0x3
	if version == 1 || layer != 1 {
		return mpegFrame{}, false
	}
	bitrateIdx := (header >> 12) & 0xF
	rateIdx := (header >> 10) & 0x3
	if bitrateIdx == 0 || bitrateIdx == 15 || rateIdx == 3 {
		return mpegFrame{}, false
	}
	frame := mpegFrame{version: version, sampleRate: sampleRates[version][rateIdx], channels: 2}
	if version == 3 {
		frame.bitrate = mpeg1Bitrates[bitrateIdx] * 1000
	} else {
		frame.bitrate = mpeg2Bitrates[bitrateIdx] * 1000
	}
	if (header>>6)&0x3 == 3 {
		frame.channels = 1
	}
	return frame, true
}

// id3TagSize returns the byte length of a leading ID3v2 tag and its major
// version, or zero when the file has none.
func id3TagSize(r io.ReaderAt) (int64, byte, error) {
	header := make([]byte, 10)
	if _, err := r.ReadAt(header, 0); err != nil {
		return 0, 0, err
	}
	if string(header[:3]) != "ID3" {
		return 0, 0, nil
	}
	size := int64(header[6]&0x7F)<<21 | int64(header[7]&0x7F)<<14 | int64(header[8]&0x7F)<<7 | int64(header[9]&0x7F)
	size += 10
	if header[5]&0x10 != 0 {
		size += 10
	}
	return size, header[3], nil
}

func findFirstFrame(r io.ReaderAt, start, fileSize int64) (mpegFrame, int64, error) {
	window := min(int64(frameSearchWindow), fileSize-start)
	if window < 4 {
		return mpegFrame{}, 0, errors.New("mp3: no audio data")
	}
	buf := make([]byte, window)
	n, err := r.ReadAt(buf, start)
	if err != nil && err != io.EOF {
		return mpegFrame{}, 0, err
	}
	buf = buf[:n]
	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF {
			continue
		}
		if frame, ok := parseFrameHeader(binary.BigEndian.Uint32(buf[i:])); ok {
			return frame, start + int64(i), nil
		}
	}
	return mpegFrame{}, 0, errors.New("mp3: no frame sync found")
}

// vbrFrameCount reads the frame count from a Xing/Info or VBRI header.
func vbrFrameCount(r io.ReaderAt, frame mpegFrame, offset int64) (uint32, bool) {
	buf := make([]byte, 16)
	if _, err := r.ReadAt(buf, offset+4+frame.sideInfoSize()); err == nil {
		tag := string(buf[:4])
		if (tag == "Xing" || tag == "Info") && binary.BigEndian.Uint32(buf[4:8])&0x1 != 0 {
			return binary.BigEndian.Uint32(buf[8:12]), true
		}
	}
	vbri := make([]byte, 18)
	if _, err := r.ReadAt(vbri, offset+36); err == nil && string(vbri[:4]) == "VBRI" {
		return binary.BigEndian.Uint32(vbri[14:18]), true
	}
	return 0, false
}

type readerAtSeeker interface {
	io.ReaderAt
	io.ReadSeeker
}

func readMP3(f readerAtSeeker, fileSize int64) (*probe.Container, error) {
	tagSize, version, err := id3TagSize(f)
	if err != nil {
		return nil, err
	}
	if tagSize > 0 && version < 3 {
		return nil, fmt.Errorf("ID3v2.%d: %w", version, probe.ErrUnsupported)
	}

	frame, offset, err := findFirstFrame(f, tagSize, fileSize)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, probe.ErrUnsupported)
	}

	c := &probe.Container{FormatName: "mp3", FormatLongName: "MP2/3 (MPEG audio layer 2/3)"}
	audioBytes := fileSize - offset
	if frames, ok := vbrFrameCount(f, frame, offset); ok && frames > 0 {
		seconds := float64(frames) * float64(frame.samplesPerFrame()) / float64(frame.sampleRate)
		c.Duration = time.Duration(seconds * float64(time.Second))
		if seconds > 0 {
			c.BitRate = int64(float64(audioBytes*8) / seconds)
		}
	} else {
		c.BitRate = int64(frame.bitrate)
		c.Duration = time.Duration(float64(audioBytes*8) / float64(frame.bitrate) * float64(time.Second))
	}

	layout := "stereo"
	if frame.channels == 1 {
		layout = "mono"
	}
	c.Streams = append(c.Streams, probe.Stream{
		MediaType:     probe.MediaAudio,
		Codec:         "mp3",
		CodecLong:     "MP3 (MPEG audio layer 3)",
		SampleFormat:  "fltp",
		SampleRate:    frame.sampleRate,
		Channels:      frame.channels,
		ChannelLayout: layout,
	})

	if tagSize > 0 {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		tag, err := id3v2.ParseReader(f, id3v2.Options{Parse: true})
		if err != nil {
			return nil, fmt.Errorf("id3v2: %w", err)
		}
		c.Tags, c.Streams = id3Tags(tag, c.Streams)
	}
	return c, nil
}

// id3Tags flattens the frames of tag into a dictionary and appends one
// attached-picture stream per APIC frame.
func id3Tags(tag *id3v2.Tag, streams []probe.Stream) (probe.Tags, []probe.Stream) {
	frames := tag.AllFrames()
	ids := make([]string, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var tags probe.Tags
	for _, id := range ids {
		for _, framer := range frames[id] {
			switch fr := framer.(type) {
			case id3v2.TextFrame:
				value := firstValue(fr.Text)
				if value == "" {
					continue
				}
				key := id
				if mapped, ok := id3Keys[id]; ok {
					key = mapped
				}
				if key == "genre" {
					value = resolveGenre(value)
				}
				tags.Add(key, value)
			case id3v2.UserDefinedTextFrame:
				if fr.Description != "" {
					tags.Add(fr.Description, firstValue(fr.Value))
				}
			case id3v2.CommentFrame:
				if fr.Description == "" {
					tags.Add("comment", firstValue(fr.Text))
				}
			case id3v2.PictureFrame:
				streams = append(streams, attachedPicture(len(streams), fr.MimeType, fr.Picture, fr.Description))
			}
		}
	}
	return tags, streams
}

// firstValue returns the first of several NUL-separated ID3v2.4 values.
func firstValue(s string) string {
	value, _, _ := strings.Cut(s, "\x00")
	return strings.TrimSpace(value)
}
