package scanner

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"mediascan/internal/icy"
	"mediascan/internal/media/probe"
	"mediascan/internal/media/streams"
	"mediascan/internal/mediafile"
	"mediascan/internal/tagmap"
)

// ErrUnusable marks a source that cannot produce a record: no audio stream,
// an empty local file, or a failed probe.
var ErrUnusable = errors.New("unusable media file")

// quirkMediaKind is written by some encoders for TV shows.
const quirkMediaKind = 10

// Override is station metadata that replaces tag-derived values for live
// network sources.
type Override struct {
	Name        string
	Description string
	Genre       string
}

// OverrideFromICY builds an override from announced station metadata. It
// returns nil when the station announced nothing usable.
func OverrideFromICY(meta *icy.Metadata) *Override {
	if meta == nil || (meta.Name == "" && meta.Description == "" && meta.Genre == "") {
		return nil
	}
	return &Override{Name: meta.Name, Description: meta.Description, Genre: meta.Genre}
}

// Stats counts the fields populated while assembling one record. Container,
// Audio and Video split the total by dictionary; Extra and Generic split it
// by field map.
type Stats struct {
	Container int
	Audio     int
	Video     int
	Extra     int
	Generic   int
	Total     int
	ExtraMap  string
}

// Assemble fills mf from c. mf may carry caller-seeded values (size, data
// kind, media kind, compilation) which are respected. ov, when non-nil,
// replaces title, artist, album artist, album and genre.
func Assemble(c *probe.Container, mf *mediafile.MediaFile, ov *Override) (Stats, error) {
	var stats Stats
	if c == nil || mf == nil {
		return stats, fmt.Errorf("%w: nothing to assemble", ErrUnusable)
	}

	audioOnly := mf.Compilation.Value() != 0 ||
		mf.Kind() == mediafile.KindPodcast ||
		mf.Kind() == mediafile.KindAudiobook
	sel := streams.Select(c.Streams, audioOnly)
	if !sel.HasAudio() {
		return stats, fmt.Errorf("%w: no audio stream", ErrUnusable)
	}
	if sel.EmbeddedArtwork {
		mf.Artwork = mediafile.ArtworkEmbedded
	}
	mf.HasVideo = sel.HasVideo()

	deriveAudio(mf, c, sel.Audio)

	class := tagmap.Classify(sel.DominantCodec(), sel.HasVideo(), c.FormatName)
	mf.Type.Override(class.Type)
	mf.CodecType.Override(class.CodecType)
	mf.Description.Override(class.Description)

	type source struct {
		tags  probe.Tags
		count *int
	}
	sources := []source{
		{tags: c.Tags, count: &stats.Container},
		{tags: sel.Audio.Tags, count: &stats.Audio},
	}
	if sel.Video != nil {
		sources = append(sources, source{tags: sel.Video.Tags, count: &stats.Video})
	}

	if class.Extra != nil {
		stats.ExtraMap = class.Extra.Name()
		for _, src := range sources {
			n := tagmap.Extract(mf, src.tags, class.Extra)
			*src.count += n
			stats.Extra += n
		}
	}
	for _, src := range sources {
		n := tagmap.Extract(mf, src.tags, tagmap.Generic)
		*src.count += n
		stats.Generic += n
	}
	stats.Total = stats.Extra + stats.Generic

	if ov != nil {
		mf.Title.Override(ov.Name)
		mf.Artist.Override(ov.Name)
		mf.AlbumArtist.Override(ov.Name)
		mf.Album.Override(ov.Description)
		mf.Genre.Override(ov.Genre)
	}

	if mf.MediaKind.Value() == quirkMediaKind {
		mf.MediaKind.Override(uint32(mediafile.KindTVShow))
	} else if mf.HasVideo && !mf.MediaKind.IsSet() {
		mf.MediaKind.Fill(uint32(mediafile.KindMovie))
	}

	if !mf.Title.IsSet() {
		mf.Title.Fill(norm.NFC.String(mf.DisplayName()))
	}
	return stats, nil
}

// deriveAudio copies stream and container properties onto the record.
func deriveAudio(mf *mediafile.MediaFile, c *probe.Container, audio *probe.Stream) {
	mf.SampleRate = clampUint32(int64(audio.SampleRate))
	mf.BitsPerSample = clampUint32(int64(streams.BitsPerSample(*audio)))
	mf.Channels = clampUint32(int64(streams.ChannelCount(*audio)))

	if c.Duration > 0 {
		mf.SongLength = clampUint32(c.Duration.Milliseconds())
	}

	size := mf.FileSize
	if size == 0 {
		size = c.Size
	}
	switch {
	case c.BitRate > 0:
		mf.Bitrate = clampUint32(c.BitRate / 1000)
	case c.Duration > time.Second && size > 0:
		seconds := int64(c.Duration / time.Second)
		mf.Bitrate = clampUint32(size * 8 / seconds / 1000)
	}
}

func clampUint32(v int64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > int64(^uint32(0)):
		return ^uint32(0)
	default:
		return uint32(v)
	}
}
