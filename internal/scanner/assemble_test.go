package scanner

import (
	"errors"
	"testing"
	"time"

	"mediascan/internal/icy"
	"mediascan/internal/media/probe"
	"mediascan/internal/mediafile"
)

func audio(codec string, tags ...probe.Tag) probe.Stream {
	return probe.Stream{
		MediaType:    probe.MediaAudio,
		Codec:        codec,
		SampleFormat: "s16",
		SampleRate:   44100,
		Channels:     2,
		Tags:         tags,
	}
}

func video(codec string, index int) probe.Stream {
	return probe.Stream{Index: index, MediaType: probe.MediaVideo, Codec: codec, Width: 1280, Height: 720}
}

func TestAssembleRequiresAudio(t *testing.T) {
	c := &probe.Container{FormatName: "mov,mp4,m4a", Streams: []probe.Stream{video("h264", 0)}}
	_, err := Assemble(c, mediafile.New("/media/clip.mp4"), nil)
	if !errors.Is(err, ErrUnusable) {
		t.Fatalf("expected ErrUnusable, got %v", err)
	}
}

func TestAssembleUntaggedFallsBackToFileName(t *testing.T) {
	c := &probe.Container{
		FormatName: "mp3",
		Duration:   3 * time.Minute,
		BitRate:    192000,
		Streams:    []probe.Stream{audio("mp3")},
	}
	mf := mediafile.New("/music/track07.mp3")
	stats, err := Assemble(c, mf, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("total = %d, want 0", stats.Total)
	}
	if stats.ExtraMap != "id3" {
		t.Fatalf("extra map = %q, want id3", stats.ExtraMap)
	}
	if mf.Title.Value() != "track07" {
		t.Fatalf("title = %q, want track07", mf.Title.Value())
	}
	if mf.Type.Value() != "mp3" || mf.CodecType.Value() != "mpeg" || mf.Description.Value() != "MPEG audio file" {
		t.Fatalf("unexpected classification %q/%q/%q", mf.Type.Value(), mf.CodecType.Value(), mf.Description.Value())
	}
	if mf.Bitrate != 192 || mf.SongLength != 180000 || mf.SampleRate != 44100 || mf.Channels != 2 {
		t.Fatalf("unexpected audio properties: %+v", mf)
	}
	if mf.MediaKind.IsSet() {
		t.Fatalf("media kind should stay unset for audio, got %d", mf.MediaKind.Value())
	}
}

func TestAssembleStationOverride(t *testing.T) {
	c := &probe.Container{
		FormatName: "mp3",
		Tags:       probe.Tags{{Key: "title", Value: "Current Song"}, {Key: "album", Value: "Stream"}},
		Streams:    []probe.Stream{audio("mp3")},
	}
	mf := mediafile.New("http://radio.example/live")
	mf.DataKind = mediafile.DataHTTP
	ov := OverrideFromICY(&icy.Metadata{Name: "Radio X", Genre: "Jazz"})
	if _, err := Assemble(c, mf, ov); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for name, got := range map[string]string{
		"title":        mf.Title.Value(),
		"artist":       mf.Artist.Value(),
		"album_artist": mf.AlbumArtist.Value(),
	} {
		if got != "Radio X" {
			t.Fatalf("%s = %q, want Radio X", name, got)
		}
	}
	if mf.Genre.Value() != "Jazz" {
		t.Fatalf("genre = %q", mf.Genre.Value())
	}
	if mf.Album.Value() != "Stream" {
		t.Fatalf("empty description must not clear album, got %q", mf.Album.Value())
	}
}

func TestOverrideFromICY(t *testing.T) {
	if OverrideFromICY(nil) != nil {
		t.Fatal("nil metadata should yield no override")
	}
	if OverrideFromICY(&icy.Metadata{URL: "http://radio.example", Bitrate: 128}) != nil {
		t.Fatal("metadata without name, description or genre should yield no override")
	}
	ov := OverrideFromICY(&icy.Metadata{Description: "Late night"})
	if ov == nil || ov.Description != "Late night" {
		t.Fatalf("unexpected override %+v", ov)
	}
}

func TestAssembleVorbisBeforeGeneric(t *testing.T) {
	c := &probe.Container{
		FormatName: "flac",
		Tags: probe.Tags{
			{Key: "TRACKNUMBER", Value: "3/12"},
			{Key: "track", Value: "5"},
			{Key: "ALBUMARTIST", Value: "Various"},
			{Key: "ARTIST", Value: "Nina"},
		},
		Streams: []probe.Stream{audio("flac")},
	}
	mf := mediafile.New("/music/03.flac")
	stats, err := Assemble(c, mf, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if stats.ExtraMap != "vorbis" {
		t.Fatalf("extra map = %q, want vorbis", stats.ExtraMap)
	}
	if mf.Track.Value() != 3 || mf.TotalTracks.Value() != 12 {
		t.Fatalf("track = %d/%d, want 3/12", mf.Track.Value(), mf.TotalTracks.Value())
	}
	if mf.AlbumArtist.Value() != "Various" || mf.Artist.Value() != "Nina" {
		t.Fatalf("unexpected artists %q / %q", mf.AlbumArtist.Value(), mf.Artist.Value())
	}
	if stats.Extra == 0 || stats.Generic == 0 || stats.Total != stats.Extra+stats.Generic {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Container != stats.Total {
		t.Fatalf("all values came from the container dictionary: %+v", stats)
	}
}

func TestAssembleMediaKind(t *testing.T) {
	tests := []struct {
		name    string
		tags    probe.Tags
		seed    mediafile.MediaKind
		streams []probe.Stream
		want    mediafile.MediaKind
		video   bool
	}{
		{
			name:    "quirk value becomes tv show",
			tags:    probe.Tags{{Key: "stik", Value: "10"}},
			streams: []probe.Stream{video("h264", 0), audio("aac")},
			want:    mediafile.KindTVShow,
			video:   true,
		},
		{
			name:    "video defaults to movie",
			streams: []probe.Stream{video("h264", 0), audio("aac")},
			want:    mediafile.KindMovie,
			video:   true,
		},
		{
			name:    "explicit music video kept",
			tags:    probe.Tags{{Key: "stik", Value: "32"}},
			streams: []probe.Stream{video("h264", 0), audio("aac")},
			want:    mediafile.KindMusicVideo,
			video:   true,
		},
		{
			name:    "podcast ignores video",
			seed:    mediafile.KindPodcast,
			streams: []probe.Stream{video("h264", 0), audio("aac")},
			want:    mediafile.KindPodcast,
		},
		{
			name:    "audio leaves kind unset",
			streams: []probe.Stream{audio("aac")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &probe.Container{FormatName: "mov,mp4,m4a", Tags: tt.tags, Streams: tt.streams}
			mf := mediafile.New("/media/item.m4v")
			if tt.seed != 0 {
				mf.MediaKind.Fill(uint32(tt.seed))
			}
			if _, err := Assemble(c, mf, nil); err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if mf.Kind() != tt.want {
				t.Fatalf("kind = %d, want %d", mf.Kind(), tt.want)
			}
			if mf.HasVideo != tt.video {
				t.Fatalf("has video = %v, want %v", mf.HasVideo, tt.video)
			}
		})
	}
}

func TestAssemblePodcastClassifiedByAudio(t *testing.T) {
	c := &probe.Container{FormatName: "mov,mp4,m4a", Streams: []probe.Stream{video("h264", 0), audio("aac")}}
	mf := mediafile.New("/podcasts/episode.mp4")
	mf.MediaKind.Fill(uint32(mediafile.KindPodcast))
	if _, err := Assemble(c, mf, nil); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mf.Type.Value() != "m4a" {
		t.Fatalf("type = %q, want m4a", mf.Type.Value())
	}
}

func TestAssembleAttachedPicture(t *testing.T) {
	cover := video("mjpeg", 1)
	cover.Disposition = probe.Disposition{"attached_pic": 1}
	c := &probe.Container{FormatName: "flac", Streams: []probe.Stream{audio("flac"), cover}}
	mf := mediafile.New("/music/cover.flac")
	if _, err := Assemble(c, mf, nil); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mf.Artwork != mediafile.ArtworkEmbedded {
		t.Fatalf("artwork = %v, want embedded", mf.Artwork)
	}
	if mf.HasVideo || mf.MediaKind.IsSet() {
		t.Fatalf("cover art must not count as video: has_video=%v kind=%d", mf.HasVideo, mf.MediaKind.Value())
	}
}

func TestAssembleBitrateEstimate(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		size     int64
		want     uint32
	}{
		{name: "estimated from size", duration: 10 * time.Second, size: 160000, want: 128},
		{name: "fractional seconds truncated", duration: 10500 * time.Millisecond, size: 160000, want: 128},
		{name: "too short", duration: time.Second, size: 160000, want: 0},
		{name: "unknown size", duration: 10 * time.Second, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &probe.Container{FormatName: "mp3", Duration: tt.duration, Streams: []probe.Stream{audio("mp3")}}
			mf := mediafile.New("/music/a.mp3")
			mf.FileSize = tt.size
			if _, err := Assemble(c, mf, nil); err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			if mf.Bitrate != tt.want {
				t.Fatalf("bitrate = %d, want %d", mf.Bitrate, tt.want)
			}
		})
	}
}

func TestAssembleTitleNormalized(t *testing.T) {
	c := &probe.Container{FormatName: "mp3", Streams: []probe.Stream{audio("mp3")}}
	mf := mediafile.New("/music/Cafe\u0301.mp3")
	if _, err := Assemble(c, mf, nil); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if mf.Title.Value() != "Caf\u00e9" {
		t.Fatalf("title = %q, want composed form", mf.Title.Value())
	}
}
