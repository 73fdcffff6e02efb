package mediafile

// FieldID identifies a tag-mappable record field.
type FieldID int

const (
	FieldNone FieldID = iota

	FieldTitle
	FieldArtist
	FieldAlbumArtist
	FieldAlbum
	FieldGenre
	FieldComposer
	FieldGrouping
	FieldOrchestra
	FieldConductor
	FieldComment
	FieldTitleSort
	FieldArtistSort
	FieldAlbumSort
	FieldAlbumArtistSort
	FieldComposerSort
	FieldTVSeriesName
	FieldTVEpisodeNumStr
	FieldTVNetworkName

	FieldTrack
	FieldTotalTracks
	FieldDisc
	FieldTotalDiscs
	FieldYear
	FieldDateReleased
	FieldCompilation
	FieldMediaKind
	FieldTVEpisodeSort
	FieldTVSeasonNum

	FieldSongAlbumID
)

var fieldNames = map[FieldID]string{
	FieldTitle:           "title",
	FieldArtist:          "artist",
	FieldAlbumArtist:     "album_artist",
	FieldAlbum:           "album",
	FieldGenre:           "genre",
	FieldComposer:        "composer",
	FieldGrouping:        "grouping",
	FieldOrchestra:       "orchestra",
	FieldConductor:       "conductor",
	FieldComment:         "comment",
	FieldTitleSort:       "title_sort",
	FieldArtistSort:      "artist_sort",
	FieldAlbumSort:       "album_sort",
	FieldAlbumArtistSort: "album_artist_sort",
	FieldComposerSort:    "composer_sort",
	FieldTVSeriesName:    "tv_series_name",
	FieldTVEpisodeNumStr: "tv_episode_num_str",
	FieldTVNetworkName:   "tv_network_name",
	FieldTrack:           "track",
	FieldTotalTracks:     "total_tracks",
	FieldDisc:            "disc",
	FieldTotalDiscs:      "total_discs",
	FieldYear:            "year",
	FieldDateReleased:    "date_released",
	FieldCompilation:     "compilation",
	FieldMediaKind:       "media_kind",
	FieldTVEpisodeSort:   "tv_episode_sort",
	FieldTVSeasonNum:     "tv_season_num",
	FieldSongAlbumID:     "songalbumid",
}

// String returns the storage column name of the field.
func (id FieldID) String() string {
	if name, ok := fieldNames[id]; ok {
		return name
	}
	return "unknown"
}

// TextFields lists the tag-mappable string fields in declaration order.
func TextFields() []FieldID {
	return fieldRange(FieldTitle, FieldTVNetworkName)
}

// NumberFields lists the tag-mappable integer fields in declaration order.
func NumberFields() []FieldID {
	return fieldRange(FieldTrack, FieldTVSeasonNum)
}

func fieldRange(first, last FieldID) []FieldID {
	ids := make([]FieldID, 0, last-first+1)
	for id := first; id <= last; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Text returns the string field addressed by id, or nil when id is not a
// string field.
func (m *MediaFile) Text(id FieldID) *Text {
	switch id {
	case FieldTitle:
		return &m.Title
	case FieldArtist:
		return &m.Artist
	case FieldAlbumArtist:
		return &m.AlbumArtist
	case FieldAlbum:
		return &m.Album
	case FieldGenre:
		return &m.Genre
	case FieldComposer:
		return &m.Composer
	case FieldGrouping:
		return &m.Grouping
	case FieldOrchestra:
		return &m.Orchestra
	case FieldConductor:
		return &m.Conductor
	case FieldComment:
		return &m.Comment
	case FieldTitleSort:
		return &m.TitleSort
	case FieldArtistSort:
		return &m.ArtistSort
	case FieldAlbumSort:
		return &m.AlbumSort
	case FieldAlbumArtistSort:
		return &m.AlbumArtistSort
	case FieldComposerSort:
		return &m.ComposerSort
	case FieldTVSeriesName:
		return &m.TVSeriesName
	case FieldTVEpisodeNumStr:
		return &m.TVEpisodeNumStr
	case FieldTVNetworkName:
		return &m.TVNetworkName
	}
	return nil
}

// Number returns the integer field addressed by id, or nil when id is not an
// integer field.
func (m *MediaFile) Number(id FieldID) *Number {
	switch id {
	case FieldTrack:
		return &m.Track
	case FieldTotalTracks:
		return &m.TotalTracks
	case FieldDisc:
		return &m.Disc
	case FieldTotalDiscs:
		return &m.TotalDiscs
	case FieldYear:
		return &m.Year
	case FieldDateReleased:
		return &m.DateReleased
	case FieldCompilation:
		return &m.Compilation
	case FieldMediaKind:
		return &m.MediaKind
	case FieldTVEpisodeSort:
		return &m.TVEpisodeSort
	case FieldTVSeasonNum:
		return &m.TVSeasonNum
	}
	return nil
}
