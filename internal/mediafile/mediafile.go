package mediafile

import (
	"path/filepath"
	"strings"
)

// MediaFile is the canonical record assembled for one scanned file or stream.
type MediaFile struct {
	Path     string
	FileName string
	FileSize int64
	DataKind DataKind

	Title       Text
	Artist      Text
	AlbumArtist Text
	Album       Text
	Genre       Text
	Composer    Text
	Grouping    Text
	Orchestra   Text
	Conductor   Text
	Comment     Text

	TitleSort       Text
	ArtistSort      Text
	AlbumSort       Text
	AlbumArtistSort Text
	ComposerSort    Text

	Type        Text
	CodecType   Text
	Description Text

	TVSeriesName    Text
	TVEpisodeNumStr Text
	TVNetworkName   Text
	TVEpisodeSort   Number
	TVSeasonNum     Number

	Track        Number
	TotalTracks  Number
	Disc         Number
	TotalDiscs   Number
	Year         Number
	DateReleased Number
	Compilation  Number
	MediaKind    Number

	SongAlbumID Identity

	Channels      uint32
	BitsPerSample uint32
	SampleRate    uint32
	Bitrate       uint32
	SongLength    uint32

	HasVideo bool
	Artwork  Artwork
}

// New returns an empty record for the given source path. FileName is derived
// from the last path element.
func New(path string) *MediaFile {
	return &MediaFile{Path: path, FileName: filepath.Base(path)}
}

// Kind returns the media kind as a typed value.
func (m *MediaFile) Kind() MediaKind {
	return MediaKind(m.MediaKind.Value())
}

// DisplayName returns the file name without its extension.
func (m *MediaFile) DisplayName() string {
	name := m.FileName
	if name == "" {
		name = filepath.Base(m.Path)
	}
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
