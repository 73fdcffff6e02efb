package tagmap

import "strings"

// Classification is the canonical format description of a file.
type Classification struct {
	Type        string
	CodecType   string
	Description string
	// Extra runs before Generic when non-nil.
	Extra *Map
}

var codecClasses = map[string]Classification{
	"aac":         {Type: "m4a", CodecType: "mp4a", Description: "AAC audio file"},
	"alac":        {Type: "m4a", CodecType: "alac", Description: "Apple Lossless audio file"},
	"flac":        {Type: "flac", CodecType: "flac", Description: "FLAC audio file", Extra: Vorbis},
	"ape":         {Type: "ape", CodecType: "ape", Description: "Monkey's audio"},
	"musepack7":   {Type: "mpc", CodecType: "mpc", Description: "Musepack audio file"},
	"musepack8":   {Type: "mpc", CodecType: "mpc", Description: "Musepack audio file"},
	"mpeg4":       {Type: "m4v", CodecType: "mp4v", Description: "MPEG-4 video file", Extra: TV},
	"h264":        {Type: "m4v", CodecType: "mp4v", Description: "MPEG-4 video file", Extra: TV},
	"mp3":         {Type: "mp3", CodecType: "mpeg", Description: "MPEG audio file", Extra: ID3},
	"vorbis":      {Type: "ogg", CodecType: "ogg", Description: "Ogg Vorbis audio file", Extra: Vorbis},
	"wmav1":       {Type: "wma", CodecType: "wmav", Description: "WMA audio file"},
	"wmav2":       {Type: "wma", CodecType: "wmav", Description: "WMA audio file"},
	"wmavoice":    {Type: "wma", CodecType: "wmav", Description: "WMA audio file"},
	"wmapro":      {Type: "wmap", CodecType: "wma", Description: "WMA audio file"},
	"wmalossless": {Type: "wma", CodecType: "wmal", Description: "WMA audio file"},
}

// pcmCodecs covers the raw PCM codecs whose file type depends on the
// container rather than the codec.
var pcmCodecs = codecSet(
	"pcm_s16le", "pcm_s16be", "pcm_u16le", "pcm_u16be",
	"pcm_s8", "pcm_u8", "pcm_mulaw", "pcm_alaw",
	"pcm_s32le", "pcm_s32be", "pcm_u32le", "pcm_u32be",
	"pcm_s24le", "pcm_s24be", "pcm_u24le", "pcm_u24be",
	"pcm_s24daud", "pcm_zork", "pcm_s16le_planar", "pcm_dvd",
	"pcm_f32be", "pcm_f32le", "pcm_f64be", "pcm_f64le",
)

func codecSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

var pcmContainers = map[string]Classification{
	"aiff": {Type: "aif", CodecType: "aif", Description: "AIFF audio file"},
	"wav":  {Type: "wav", CodecType: "wav", Description: "WAV audio file"},
}

// Classify maps the dominant codec and container format onto type, codec
// type and description strings. Unknown codecs are never an error.
func Classify(codec string, hasVideo bool, formatName string) Classification {
	codec = strings.ToLower(strings.TrimSpace(codec))
	if class, ok := codecClasses[codec]; ok {
		return class
	}
	if IsPCM(codec) {
		if class, ok := pcmClass(formatName); ok {
			return class
		}
	}
	if hasVideo {
		return Classification{Type: "unkn", CodecType: "unkn", Description: "Unknown video file format", Extra: TV}
	}
	return Classification{Type: "unkn", CodecType: "unkn", Description: "Unknown audio file format"}
}

// IsPCM reports whether codec is one of the raw PCM codecs.
func IsPCM(codec string) bool {
	_, ok := pcmCodecs[strings.ToLower(codec)]
	return ok
}

// pcmClass matches the container name, which may be a comma-separated list
// of demuxer aliases.
func pcmClass(formatName string) (Classification, bool) {
	for name := range strings.SplitSeq(formatName, ",") {
		if class, ok := pcmContainers[strings.ToLower(strings.TrimSpace(name))]; ok {
			return class, true
		}
	}
	return Classification{}, false
}
