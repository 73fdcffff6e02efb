package streams

import (
	"strconv"
	"strings"

	"mediascan/internal/media/probe"
)

// Selection describes the streams chosen from one container.
type Selection struct {
	Audio           *probe.Stream
	Video           *probe.Stream
	EmbeddedArtwork bool
	Ignored         []int
}

// HasAudio reports whether an audio stream was selected.
func (s Selection) HasAudio() bool { return s.Audio != nil }

// HasVideo reports whether a video stream was accepted.
func (s Selection) HasVideo() bool { return s.Video != nil }

// DominantCodec is the video codec when video was accepted, else the audio codec.
func (s Selection) DominantCodec() string {
	if s.Video != nil {
		return s.Video.Codec
	}
	if s.Audio != nil {
		return s.Audio.Codec
	}
	return ""
}

// Select walks the streams once in container order. audioOnly suppresses
// video selection for compilations, podcasts and audiobooks.
func Select(streams []probe.Stream, audioOnly bool) Selection {
	var sel Selection
	for i := range streams {
		stream := &streams[i]
		switch stream.MediaType {
		case probe.MediaVideo:
			if stream.Disposition.AttachedPic() {
				sel.EmbeddedArtwork = true
				continue
			}
			if audioOnly || sel.Video != nil {
				sel.Ignored = append(sel.Ignored, stream.Index)
				continue
			}
			sel.Video = stream
		case probe.MediaAudio:
			if sel.Audio != nil {
				sel.Ignored = append(sel.Ignored, stream.Index)
				continue
			}
			sel.Audio = stream
		default:
			sel.Ignored = append(sel.Ignored, stream.Index)
		}
	}
	return sel
}

// ChannelCount returns the stream's channel count, falling back to the
// channel layout string when the demuxer did not report one.
func ChannelCount(stream probe.Stream) int {
	if stream.Channels > 0 {
		return stream.Channels
	}
	layout := strings.ToLower(strings.TrimSpace(stream.ChannelLayout))
	if layout == "" {
		return 0
	}
	switch layout {
	case "mono":
		return 1
	case "stereo", "downmix":
		return 2
	case "quad":
		return 4
	}
	if strings.HasPrefix(layout, "7.1") {
		return 8
	}
	if strings.HasPrefix(layout, "6.1") {
		return 7
	}
	if strings.HasPrefix(layout, "5.1") {
		return 6
	}
	if strings.HasPrefix(layout, "4.0") {
		return 4
	}
	if strings.HasPrefix(layout, "2.1") {
		return 3
	}
	if strings.HasPrefix(layout, "2.0") {
		return 2
	}
	if strings.HasPrefix(layout, "1.0") {
		return 1
	}
	if strings.Contains(layout, ".") {
		parts := strings.Split(layout, ".")
		total := 0
		for _, part := range parts {
			part = strings.Trim(part, "abcdefghijklmnopqrstuvwxyz ()")
			if part == "" {
				continue
			}
			if n, err := strconv.Atoi(part); err == nil {
				total += n
			}
		}
		if total > 0 {
			return total
		}
	}
	return 0
}

// sampleFormatBytes mirrors the byte width of each decoder sample format.
var sampleFormatBytes = map[string]int{
	"u8":   1,
	"u8p":  1,
	"s16":  2,
	"s16p": 2,
	"s32":  4,
	"s32p": 4,
	"flt":  4,
	"fltp": 4,
	"dbl":  8,
	"dblp": 8,
	"s64":  8,
	"s64p": 8,
}

// codecBits covers codecs whose bit depth is fixed by the codec itself.
var codecBits = bitsByCodec(map[int][]string{
	4:  {"adpcm_ima_wav", "adpcm_ms", "adpcm_g726", "adpcm_yamaha"},
	8:  {"pcm_alaw", "pcm_mulaw", "pcm_s8", "pcm_u8", "pcm_zork"},
	16: {"pcm_s16be", "pcm_s16le", "pcm_u16be", "pcm_u16le", "pcm_s16le_planar", "pcm_dvd"},
	24: {"pcm_s24be", "pcm_s24le", "pcm_u24be", "pcm_u24le", "pcm_s24daud"},
	32: {"pcm_s32be", "pcm_s32le", "pcm_u32be", "pcm_u32le", "pcm_f32be", "pcm_f32le"},
	64: {"pcm_f64be", "pcm_f64le"},
})

func bitsByCodec(groups map[int][]string) map[string]int {
	out := make(map[string]int)
	for bits, codecs := range groups {
		for _, codec := range codecs {
			out[codec] = bits
		}
	}
	return out
}

// BitsPerSample derives the bit depth from the sample format, then from the
// value the backend reported, then from the codec.
func BitsPerSample(stream probe.Stream) int {
	if n, ok := sampleFormatBytes[strings.ToLower(stream.SampleFormat)]; ok {
		return 8 * n
	}
	if stream.BitsPerSample > 0 {
		return stream.BitsPerSample
	}
	return codecBits[strings.ToLower(stream.Codec)]
}

// Lossless reports whether the stream uses a lossless codec.
func Lossless(stream probe.Stream) bool {
	name := strings.ToLower(stream.Codec)
	long := strings.ToLower(stream.CodecLong)
	switch name {
	case "flac", "alac", "ape", "wavpack", "tta", "wmalossless", "truehd", "mlp":
		return true
	}
	if strings.HasPrefix(name, "pcm_") {
		return true
	}
	return strings.Contains(long, "lossless")
}

// Summary returns a short human-readable description of a stream.
func Summary(stream probe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := strings.TrimSpace(stream.Tags.Value("language")); lang != "" {
		parts = append(parts, strings.ToLower(lang))
	}
	codec := stream.CodecLong
	if codec == "" {
		codec = stream.Codec
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if ch := ChannelCount(stream); ch > 0 {
		parts = append(parts, strconv.Itoa(ch)+"ch")
	}
	if stream.SampleRate > 0 {
		parts = append(parts, strconv.Itoa(stream.SampleRate)+"Hz")
	}
	if stream.Disposition.AttachedPic() {
		parts = append(parts, "cover art")
	}
	if len(parts) == 0 {
		return string(stream.MediaType)
	}
	return strings.Join(parts, " | ")
}
