package main

import (
	"fmt"
	"strconv"
	"time"

	"mediascan/internal/library"
	"mediascan/internal/mediafile"
)

// recordView is the JSON shape of a record for show and probe.
type recordView struct {
	ID            int64          `json:"id,omitempty"`
	Path          string         `json:"path"`
	FileName      string         `json:"file_name"`
	FileSize      int64          `json:"file_size"`
	DataKind      string         `json:"data_kind"`
	Fields        map[string]any `json:"fields"`
	Channels      uint32         `json:"channels"`
	BitsPerSample uint32         `json:"bits_per_sample"`
	SampleRate    uint32         `json:"samplerate"`
	Bitrate       uint32         `json:"bitrate"`
	SongLength    uint32         `json:"song_length"`
	HasVideo      bool           `json:"has_video"`
	Artwork       bool           `json:"artwork"`
	MetadataCount *int           `json:"metadata_count,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

func newRecordView(mf *mediafile.MediaFile) recordView {
	view := recordView{
		Path:          mf.Path,
		FileName:      mf.FileName,
		FileSize:      mf.FileSize,
		DataKind:      mf.DataKind.String(),
		Fields:        map[string]any{},
		Channels:      mf.Channels,
		BitsPerSample: mf.BitsPerSample,
		SampleRate:    mf.SampleRate,
		Bitrate:       mf.Bitrate,
		SongLength:    mf.SongLength,
		HasVideo:      mf.HasVideo,
		Artwork:       mf.Artwork == mediafile.ArtworkEmbedded,
	}
	for _, id := range mediafile.TextFields() {
		if f := mf.Text(id); f.IsSet() {
			view.Fields[id.String()] = f.Value()
		}
	}
	for _, id := range mediafile.NumberFields() {
		if f := mf.Number(id); f.IsSet() {
			view.Fields[id.String()] = f.Value()
		}
	}
	if mf.SongAlbumID.IsSet() {
		view.Fields[mediafile.FieldSongAlbumID.String()] = mf.SongAlbumID.Value()
	}
	return view
}

func newStoredRecordView(rec *library.Record) recordView {
	view := newRecordView(rec.File)
	view.ID = rec.ID
	count := rec.MetadataCount
	view.MetadataCount = &count
	if !rec.UpdatedAt.IsZero() {
		view.UpdatedAt = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return view
}

// recordRows lists set fields first, then the stream properties.
func recordRows(mf *mediafile.MediaFile) [][]string {
	rows := [][]string{
		{"path", mf.Path},
		{"data_kind", mf.DataKind.String()},
	}
	if mf.FileSize > 0 {
		rows = append(rows, []string{"file_size", strconv.FormatInt(mf.FileSize, 10)})
	}
	for _, id := range mediafile.TextFields() {
		if f := mf.Text(id); f.IsSet() {
			rows = append(rows, []string{id.String(), f.Value()})
		}
	}
	for _, id := range mediafile.NumberFields() {
		f := mf.Number(id)
		if !f.IsSet() {
			continue
		}
		rows = append(rows, []string{id.String(), formatNumberField(id, f.Value())})
	}
	if mf.SongAlbumID.IsSet() {
		rows = append(rows, []string{mediafile.FieldSongAlbumID.String(), strconv.FormatInt(mf.SongAlbumID.Value(), 10)})
	}
	rows = append(rows,
		[]string{"samplerate", strconv.FormatUint(uint64(mf.SampleRate), 10)},
		[]string{"bits_per_sample", strconv.FormatUint(uint64(mf.BitsPerSample), 10)},
		[]string{"channels", strconv.FormatUint(uint64(mf.Channels), 10)},
		[]string{"bitrate", fmt.Sprintf("%d kbps", mf.Bitrate)},
		[]string{"song_length", formatLength(mf.SongLength)},
		[]string{"has_video", yesNo(mf.HasVideo)},
		[]string{"artwork", yesNo(mf.Artwork == mediafile.ArtworkEmbedded)},
	)
	return rows
}

func formatNumberField(id mediafile.FieldID, value uint32) string {
	switch id {
	case mediafile.FieldDateReleased:
		return time.Unix(int64(value), 0).UTC().Format("2006-01-02")
	case mediafile.FieldMediaKind:
		return fmt.Sprintf("%d (%s)", value, mediafile.MediaKind(value))
	default:
		return strconv.FormatUint(uint64(value), 10)
	}
}

func formatLength(ms uint32) string {
	if ms == 0 {
		return "-"
	}
	d := time.Duration(ms) * time.Millisecond
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
