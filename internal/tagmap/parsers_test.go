package tagmap

import (
	"testing"
	"time"

	"mediascan/internal/mediafile"
)

func TestParseSlashPair(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCount  int
		wantFirst  uint32
		wantSecond uint32
		firstSet   bool
		secondSet  bool
	}{
		{name: "both", input: "3/12", wantCount: 2, wantFirst: 3, wantSecond: 12, firstSet: true, secondSet: true},
		{name: "first only", input: "3", wantCount: 1, wantFirst: 3, firstSet: true},
		{name: "second only", input: "/12", wantCount: 1, wantSecond: 12, secondSet: true},
		{name: "garbage", input: "abc", wantCount: 0},
		{name: "trailing text", input: "4 of 9", wantCount: 1, wantFirst: 4, firstSet: true},
		{name: "leading whitespace", input: " 5/ 7", wantCount: 2, wantFirst: 5, wantSecond: 7, firstSet: true, secondSet: true},
		{name: "zero track", input: "0/10", wantCount: 1, wantSecond: 10, secondSet: true},
		{name: "overflow", input: "99999999999/2", wantCount: 1, wantSecond: 2, secondSet: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var first, second mediafile.Number
			if got := ParseSlashPair(tc.input, &first, &second); got != tc.wantCount {
				t.Fatalf("count = %d, want %d", got, tc.wantCount)
			}
			if first.IsSet() != tc.firstSet || first.Value() != tc.wantFirst {
				t.Fatalf("first = (%d, %v), want (%d, %v)", first.Value(), first.IsSet(), tc.wantFirst, tc.firstSet)
			}
			if second.IsSet() != tc.secondSet || second.Value() != tc.wantSecond {
				t.Fatalf("second = (%d, %v), want (%d, %v)", second.Value(), second.IsSet(), tc.wantSecond, tc.secondSet)
			}
		})
	}
}

func TestParseTrackKeepsExistingValues(t *testing.T) {
	mf := mediafile.New("/music/a.flac")
	mf.Track.Fill(1)
	if got := ParseTrack(mf, "5/10"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if mf.Track.Value() != 1 || mf.TotalTracks.Value() != 10 {
		t.Fatalf("unexpected track %d/%d", mf.Track.Value(), mf.TotalTracks.Value())
	}
}

func TestParseDateZonedTimestamp(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	count := ParseDate(mf, "2021-05-01T10:00:00+0000")
	if count < 1 {
		t.Fatalf("count = %d, want at least 1", count)
	}
	want := time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC).Unix()
	if int64(mf.DateReleased.Value()) != want {
		t.Fatalf("date_released = %d, want %d", mf.DateReleased.Value(), want)
	}
	if mf.Year.Value() != 2021 {
		t.Fatalf("year = %d, want 2021", mf.Year.Value())
	}
}

func TestParseDateColonOffset(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	mf.Year.Fill(1999)
	if got := ParseDate(mf, "2021-05-01T10:00:00+02:00"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	want := time.Date(2021, 5, 1, 8, 0, 0, 0, time.UTC).Unix()
	if int64(mf.DateReleased.Value()) != want {
		t.Fatalf("date_released = %d, want %d", mf.DateReleased.Value(), want)
	}
	if mf.Year.Value() != 1999 {
		t.Fatalf("year should be untouched, got %d", mf.Year.Value())
	}
}

func TestParseDateLocalLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{input: "2019-07-04 18:30:15", want: time.Date(2019, 7, 4, 18, 30, 15, 0, time.Local)},
		{input: "2019-07-04 18:30", want: time.Date(2019, 7, 4, 18, 30, 0, 0, time.Local)},
		{input: "2019-07-04", want: time.Date(2019, 7, 4, 0, 0, 0, 0, time.Local)},
		{input: "2019-07-04T18:30:15", want: time.Date(2019, 7, 4, 0, 0, 0, 0, time.Local)},
	}
	for _, tc := range tests {
		mf := mediafile.New("/music/a.mp3")
		ParseDate(mf, tc.input)
		if int64(mf.DateReleased.Value()) != tc.want.Unix() {
			t.Fatalf("%s: date_released = %d, want %d", tc.input, mf.DateReleased.Value(), tc.want.Unix())
		}
	}
}

func TestParseDateBareYearSynthesizesRelease(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	if got := ParseDate(mf, "2021"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if mf.Year.Value() != 2021 {
		t.Fatalf("year = %d, want 2021", mf.Year.Value())
	}
	want := time.Date(2021, 1, 1, 12, 0, 0, 0, time.Local).Unix()
	if int64(mf.DateReleased.Value()) != want {
		t.Fatalf("date_released = %d, want %d", mf.DateReleased.Value(), want)
	}
}

func TestParseDateGarbage(t *testing.T) {
	mf := mediafile.New("/music/a.mp3")
	if got := ParseDate(mf, "sometime"); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
	if mf.Year.IsSet() || mf.DateReleased.IsSet() {
		t.Fatal("expected no fields set")
	}
}

func TestParseDateBeforeEpochKeepsYearOnly(t *testing.T) {
	mf := mediafile.New("/music/a.flac")
	if got := ParseDate(mf, "1965-03-10"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if mf.Year.Value() != 1965 {
		t.Fatalf("year = %d, want 1965", mf.Year.Value())
	}
	if mf.DateReleased.IsSet() {
		t.Fatalf("date_released = %d, want unset", mf.DateReleased.Value())
	}
}

func TestParseAlbumIDFirstWins(t *testing.T) {
	mf := mediafile.New("/music/a.flac")
	if got := ParseAlbumID(mf, "first-release"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if got := ParseAlbumID(mf, "second-release"); got != 0 {
		t.Fatalf("second call count = %d, want 0", got)
	}
	if mf.SongAlbumID.Value() != AlbumIdentity("first-release") {
		t.Fatal("identity changed after second call")
	}
}

func TestAlbumIdentityVectors(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{input: "", want: 0},
		{input: "a", want: 255451638493721992},
		{input: "hello", want: 1095615775193823371},
		{input: "abcdefgh", want: 6335862276752463180},
		{input: "9e4fbf0b-8b6a-4d2b-a1e4-3c4a2f2b7c11", want: 6719965233688625938},
	}
	for _, tc := range tests {
		if got := AlbumIdentity(tc.input); got != tc.want {
			t.Fatalf("AlbumIdentity(%q) = %d, want %d", tc.input, got, tc.want)
		}
		if got := AlbumIdentity(tc.input); got < 0 {
			t.Fatalf("AlbumIdentity(%q) negative", tc.input)
		}
	}
}
