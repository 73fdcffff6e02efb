package tagmap

import (
	"strings"
	"testing"

	"mediascan/internal/mediafile"
)

type pairs [][2]string

func (p pairs) Get(key string) (string, bool) {
	for _, kv := range p {
		if strings.EqualFold(kv[0], key) {
			return kv[1], true
		}
	}
	return "", false
}

func TestExtractCaseInsensitive(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	count := Extract(mf, pairs{{"Artist", "Nina"}, {"TITLE", "Song"}}, Generic)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if mf.Artist.Value() != "Nina" || mf.Title.Value() != "Song" {
		t.Fatalf("unexpected record %q / %q", mf.Artist.Value(), mf.Title.Value())
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	Extract(mf, pairs{{"title", "Original"}}, Generic)
	if got := Extract(mf, pairs{{"title", "Replacement"}}, Generic); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
	if mf.Title.Value() != "Original" {
		t.Fatalf("title overwritten: %q", mf.Title.Value())
	}
}

func TestExtractAliasOrder(t *testing.T) {
	mf := mediafile.New("/music/a.m4a")
	count := Extract(mf, pairs{{"author", "Second"}, {"artist", "First"}}, Generic)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if mf.Artist.Value() != "First" {
		t.Fatalf("artist = %q, want table-order winner", mf.Artist.Value())
	}
}

func TestExtractSkipsEmptyAndMalformed(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	count := Extract(mf, pairs{{"title", ""}, {"year", "unknown"}, {"compilation", "1"}}, Generic)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if mf.Title.IsSet() || mf.Year.IsSet() {
		t.Fatal("empty title or malformed year should be skipped")
	}
	if mf.Compilation.Value() != 1 {
		t.Fatalf("compilation = %d, want 1", mf.Compilation.Value())
	}
}

func TestExtractAlbumIdentityFollowsTableOrder(t *testing.T) {
	mf := mediafile.New("/music/a.flac")
	dict := pairs{{"BARCODE", "0123456789"}, {"MUSICBRAINZ_ALBUMID", "mbid"}}
	if got := Extract(mf, dict, Generic); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if mf.SongAlbumID.Value() != AlbumIdentity("mbid") {
		t.Fatal("expected MusicBrainz id to take priority over barcode")
	}
}

func TestExtractVorbisThenGeneric(t *testing.T) {
	mf := mediafile.New("/music/a.flac")
	dict := pairs{
		{"TRACKNUMBER", "4/11"},
		{"track", "9"},
		{"ALBUMARTIST", "Various"},
		{"album_artist", "Ignored"},
		{"DISCNUMBER", "2"},
		{"DISCTOTAL", "3"},
	}
	extra := Extract(mf, dict, Vorbis)
	generic := Extract(mf, dict, Generic)
	if extra != 5 {
		t.Fatalf("vorbis count = %d, want 5", extra)
	}
	if generic != 0 {
		t.Fatalf("generic count = %d, want 0", generic)
	}
	if mf.Track.Value() != 4 || mf.TotalTracks.Value() != 11 {
		t.Fatalf("track = %d/%d", mf.Track.Value(), mf.TotalTracks.Value())
	}
	if mf.AlbumArtist.Value() != "Various" {
		t.Fatalf("album artist = %q", mf.AlbumArtist.Value())
	}
	if mf.Disc.Value() != 2 || mf.TotalDiscs.Value() != 3 {
		t.Fatalf("disc = %d/%d", mf.Disc.Value(), mf.TotalDiscs.Value())
	}
}

func TestExtractTVAtoms(t *testing.T) {
	mf := mediafile.New("/video/ep.m4v")
	dict := pairs{{"stik", "10"}, {"show", "Series"}, {"season_number", "2"}, {"episode_sort", "5"}, {"network", "Net"}, {"episode_id", "S02E05"}}
	if got := Extract(mf, dict, TV); got != 6 {
		t.Fatalf("count = %d, want 6", got)
	}
	if mf.MediaKind.Value() != 10 || mf.TVSeasonNum.Value() != 2 || mf.TVEpisodeSort.Value() != 5 {
		t.Fatal("unexpected tv numbers")
	}
}

func TestExtractNilInputs(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	if Extract(mf, nil, Generic) != 0 || Extract(mf, pairs{{"title", "x"}}, nil) != 0 {
		t.Fatal("nil dictionary or map should yield zero")
	}
}

func TestMapsHaveResolvableTargets(t *testing.T) {
	mf := mediafile.New("/x")
	for _, m := range All() {
		if m.Len() == 0 {
			t.Fatalf("%s map is empty", m.Name())
		}
		for _, entry := range m.Entries() {
			if entry.Parser != nil {
				continue
			}
			switch entry.Kind {
			case KindText:
				if mf.Text(entry.Field) == nil {
					t.Fatalf("%s: %q targets non-text field %s", m.Name(), entry.Key, entry.Field)
				}
			case KindNumber:
				if mf.Number(entry.Field) == nil {
					t.Fatalf("%s: %q targets non-number field %s", m.Name(), entry.Key, entry.Field)
				}
			}
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	entries := Generic.Entries()
	entries[0].Key = "mutated"
	if Generic.Entries()[0].Key != "title" {
		t.Fatal("Entries exposed internal table")
	}
}
