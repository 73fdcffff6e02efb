package tagmap

import (
	"fmt"
	"math"
	"strings"
	"time"

	"mediascan/internal/mediafile"
)

// parseUint reads a leading unsigned decimal the way strtoul does: leading
// whitespace and a plus sign are accepted and trailing text is ignored. It
// fails when no digit is present or the value overflows 32 bits.
func parseUint(s string) (uint32, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	s = strings.TrimPrefix(s, "+")
	var val uint64
	digits := 0
	for digits < len(s) {
		c := s[digits]
		if c < '0' || c > '9' {
			break
		}
		val = val*10 + uint64(c-'0')
		if val > math.MaxUint32 {
			return 0, false
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	return uint32(val), true
}

// ParseSlashPair splits s on the first slash and fills first from the left
// part and second from the right part. It returns how many of the two fields
// were populated.
func ParseSlashPair(s string, first, second *mediafile.Number) int {
	count := 0
	left, right, hasSlash := strings.Cut(s, "/")
	if hasSlash {
		if v, ok := parseUint(right); ok && second.Fill(v) {
			count++
		}
	}
	if v, ok := parseUint(left); ok && first.Fill(v) {
		count++
	}
	return count
}

// ParseTrack handles "track/total" values.
func ParseTrack(mf *mediafile.MediaFile, raw string) int {
	return ParseSlashPair(raw, &mf.Track, &mf.TotalTracks)
}

// ParseDisc handles "disc/total" values.
func ParseDisc(mf *mediafile.MediaFile, raw string) int {
	return ParseSlashPair(raw, &mf.Disc, &mf.TotalDiscs)
}

type dateLayout struct {
	layout string
	zoned  bool
}

var dateLayouts = []dateLayout{
	{layout: "2006-01-02T15:04:05Z0700", zoned: true},
	{layout: "2006-01-02T15:04:05Z07:00", zoned: true},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02 15:04"},
	{layout: "2006-01-02"},
}

// parseCalendarDate tries each layout against the value and, for layouts
// without a zone, against the value truncated to the layout length.
func parseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, dl := range dateLayouts {
		if dl.zoned {
			if t, err := time.Parse(dl.layout, s); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(dl.layout, s, time.Local); err == nil {
			return t, true
		}
		if len(s) > len(dl.layout) {
			if t, err := time.ParseInLocation(dl.layout, s[:len(dl.layout)], time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func fillTimestamp(f *mediafile.Number, t time.Time) bool {
	unix := t.Unix()
	if unix <= 0 || unix > math.MaxUint32 {
		return false
	}
	return f.Fill(uint32(unix))
}

// ParseDate populates year and date_released from a date tag. A bare year is
// taken first when no year is known yet, then a calendar date sets
// date_released. Failing that, a known year yields noon on January 1st of
// that year; the synthesized date is not counted as a tag-derived field.
// date_released holds unsigned epoch seconds, so dates before 1970 keep only
// the year.
func ParseDate(mf *mediafile.MediaFile, raw string) int {
	count := 0
	if !mf.Year.IsSet() {
		if v, ok := parseUint(raw); ok && mf.Year.Fill(v) {
			count++
		}
	}

	if t, ok := parseCalendarDate(raw); ok {
		if fillTimestamp(&mf.DateReleased, t) {
			count++
		}
		return count
	}

	if !mf.DateReleased.IsSet() && mf.Year.IsSet() {
		synthetic := fmt.Sprintf("%04d-01-01T12:00:00", mf.Year.Value())
		if t, err := time.ParseInLocation("2006-01-02T15:04:05", synthetic, time.Local); err == nil {
			fillTimestamp(&mf.DateReleased, t)
		}
	}
	return count
}

// ParseAlbumID hashes a release identifier into SongAlbumID. Only the first
// identifier seen is kept.
func ParseAlbumID(mf *mediafile.MediaFile, raw string) int {
	if mf.SongAlbumID.IsSet() {
		return 0
	}
	if mf.SongAlbumID.Fill(AlbumIdentity(raw)) {
		return 1
	}
	return 0
}
