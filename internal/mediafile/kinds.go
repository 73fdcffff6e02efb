package mediafile

import "strings"

// MediaKind mirrors the iTunes media kind bit values stored in the library.
type MediaKind uint32

const (
	KindMusic      MediaKind = 1
	KindMovie      MediaKind = 2
	KindPodcast    MediaKind = 4
	KindAudiobook  MediaKind = 8
	KindMusicVideo MediaKind = 32
	KindTVShow     MediaKind = 64
)

// String returns the lowercase label used in CLI output and filters.
func (k MediaKind) String() string {
	switch k {
	case KindMusic:
		return "music"
	case KindMovie:
		return "movie"
	case KindPodcast:
		return "podcast"
	case KindAudiobook:
		return "audiobook"
	case KindMusicVideo:
		return "musicvideo"
	case KindTVShow:
		return "tvshow"
	case 0:
		return ""
	default:
		return "other"
	}
}

// ParseMediaKind converts a label produced by String back into a kind.
func ParseMediaKind(label string) (MediaKind, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "music":
		return KindMusic, true
	case "movie":
		return KindMovie, true
	case "podcast":
		return KindPodcast, true
	case "audiobook":
		return KindAudiobook, true
	case "musicvideo":
		return KindMusicVideo, true
	case "tvshow", "tv":
		return KindTVShow, true
	}
	return 0, false
}

// DataKind describes where the media data lives.
type DataKind int

const (
	DataFile DataKind = iota
	DataURL
	DataSpotify
	DataPipe
	DataHTTP
)

// String returns the storage label for the data kind.
func (k DataKind) String() string {
	switch k {
	case DataFile:
		return "file"
	case DataURL:
		return "url"
	case DataSpotify:
		return "spotify"
	case DataPipe:
		return "pipe"
	case DataHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Artwork records where artwork for a file can be found.
type Artwork int

const (
	ArtworkNone Artwork = iota
	ArtworkEmbedded
)
