package tagmap

import "mediascan/internal/mediafile"

// ValueKind says how an entry's raw value is stored.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
)

func (k ValueKind) String() string {
	if k == KindNumber {
		return "number"
	}
	return "text"
}

// Parser converts a raw tag value into one or more record fields and returns
// the number of fields it populated.
type Parser struct {
	Name  string
	Parse func(mf *mediafile.MediaFile, raw string) int
}

var (
	TrackParser   = &Parser{Name: "track", Parse: ParseTrack}
	DiscParser    = &Parser{Name: "disc", Parse: ParseDisc}
	DateParser    = &Parser{Name: "date", Parse: ParseDate}
	AlbumIDParser = &Parser{Name: "albumid", Parse: ParseAlbumID}
)

// Entry maps one tag key onto one record field.
type Entry struct {
	Key    string
	Kind   ValueKind
	Field  mediafile.FieldID
	Parser *Parser
}

// Map is an ordered tag vocabulary. Entry order decides which alias wins
// when several keys target the same field.
type Map struct {
	name    string
	entries []Entry
}

// Name identifies the vocabulary.
func (m *Map) Name() string {
	if m == nil {
		return ""
	}
	return m.name
}

// Entries returns a copy of the table in priority order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len reports the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

func text(key string, field mediafile.FieldID) Entry {
	return Entry{Key: key, Kind: KindText, Field: field}
}

func number(key string, field mediafile.FieldID) Entry {
	return Entry{Key: key, Kind: KindNumber, Field: field}
}

func parsed(key string, field mediafile.FieldID, p *Parser) Entry {
	return Entry{Key: key, Kind: KindNumber, Field: field, Parser: p}
}

// Generic holds the container-neutral tag names.
var Generic = &Map{name: "generic", entries: []Entry{
	text("title", mediafile.FieldTitle),
	text("artist", mediafile.FieldArtist),
	text("author", mediafile.FieldArtist),
	text("album_artist", mediafile.FieldAlbumArtist),
	text("album", mediafile.FieldAlbum),
	text("genre", mediafile.FieldGenre),
	text("composer", mediafile.FieldComposer),
	text("grouping", mediafile.FieldGrouping),
	text("orchestra", mediafile.FieldOrchestra),
	text("conductor", mediafile.FieldConductor),
	text("comment", mediafile.FieldComment),
	text("description", mediafile.FieldComment),
	parsed("track", mediafile.FieldTrack, TrackParser),
	parsed("disc", mediafile.FieldDisc, DiscParser),
	number("year", mediafile.FieldYear),
	parsed("date", mediafile.FieldDateReleased, DateParser),
	text("title-sort", mediafile.FieldTitleSort),
	text("artist-sort", mediafile.FieldArtistSort),
	text("album-sort", mediafile.FieldAlbumSort),
	number("compilation", mediafile.FieldCompilation),

	// ALAC sort tags
	text("sort_name", mediafile.FieldTitleSort),
	text("sort_artist", mediafile.FieldArtistSort),
	text("sort_album", mediafile.FieldAlbumSort),
	text("sort_album_artist", mediafile.FieldAlbumArtistSort),
	text("sort_composer", mediafile.FieldComposerSort),

	// Release identifiers grouping files into one album.
	parsed("MusicBrainz Album Id", mediafile.FieldSongAlbumID, AlbumIDParser),
	parsed("MUSICBRAINZ_ALBUMID", mediafile.FieldSongAlbumID, AlbumIDParser),
	parsed("MusicBrainz Release Group Id", mediafile.FieldSongAlbumID, AlbumIDParser),
	parsed("MusicBrainz DiscID", mediafile.FieldSongAlbumID, AlbumIDParser),
	parsed("CDDB DiscID", mediafile.FieldSongAlbumID, AlbumIDParser),
	parsed("CATALOGNUMBER", mediafile.FieldSongAlbumID, AlbumIDParser),
	parsed("BARCODE", mediafile.FieldSongAlbumID, AlbumIDParser),
}}

// TV holds iTunes video atoms as exposed by the MP4 demuxer.
var TV = &Map{name: "tv", entries: []Entry{
	number("stik", mediafile.FieldMediaKind),
	text("show", mediafile.FieldTVSeriesName),
	text("episode_id", mediafile.FieldTVEpisodeNumStr),
	text("network", mediafile.FieldTVNetworkName),
	number("episode_sort", mediafile.FieldTVEpisodeSort),
	number("season_number", mediafile.FieldTVSeasonNum),
}}

// Vorbis holds de facto Vorbis comment names not covered by Generic.
var Vorbis = &Map{name: "vorbis", entries: []Entry{
	text("albumartist", mediafile.FieldAlbumArtist),
	text("album artist", mediafile.FieldAlbumArtist),
	parsed("tracknumber", mediafile.FieldTrack, TrackParser),
	number("tracktotal", mediafile.FieldTotalTracks),
	number("totaltracks", mediafile.FieldTotalTracks),
	parsed("discnumber", mediafile.FieldDisc, DiscParser),
	number("disctotal", mediafile.FieldTotalDiscs),
	number("totaldiscs", mediafile.FieldTotalDiscs),
}}

// ID3 holds ID3v2.2/2.3 frame names that demuxers pass through unconverted.
var ID3 = &Map{name: "id3", entries: []Entry{
	text("TT1", mediafile.FieldGrouping),  // v2.2
	text("TIT1", mediafile.FieldGrouping), // v2.3
	text("GP1", mediafile.FieldGrouping),  // iTunes
	text("GRP1", mediafile.FieldGrouping), // iTunes
	text("TCM", mediafile.FieldComposer),
	parsed("TPA", mediafile.FieldDisc, DiscParser),
	text("XSOA", mediafile.FieldAlbumSort),
	text("XSOP", mediafile.FieldArtistSort),
	text("XSOT", mediafile.FieldTitleSort),
	text("TS2", mediafile.FieldAlbumArtistSort),
	text("TSO2", mediafile.FieldAlbumArtistSort),
	text("ALBUMARTISTSORT", mediafile.FieldAlbumArtistSort),
	text("TSC", mediafile.FieldComposerSort),
	text("TSOC", mediafile.FieldComposerSort),
}}

// All returns every vocabulary in the order they are documented.
func All() []*Map {
	return []*Map{Generic, TV, Vorbis, ID3}
}
