package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediascan/internal/mediafile"
)

// Record is a stored media file.
type Record struct {
	ID            int64
	File          *mediafile.MediaFile
	MetadataCount int
	ScanRunID     string
	UpdatedAt     time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind    mediafile.MediaKind
	AlbumID int64
	Prefix  string
	Limit   int
}

var (
	textFields   = mediafile.TextFields()
	numberFields = mediafile.NumberFields()
	fileColumns  = buildFileColumns()
)

func buildFileColumns() []string {
	cols := []string{"path", "fname", "file_size", "data_kind"}
	for _, id := range textFields {
		cols = append(cols, id.String())
	}
	for _, id := range numberFields {
		cols = append(cols, id.String())
	}
	return append(cols,
		mediafile.FieldSongAlbumID.String(),
		"type", "codectype", "description",
		"channels", "bits_per_sample", "samplerate", "bitrate", "song_length",
		"has_video", "artwork", "mdcount", "scan_run_id", "updated_at",
	)
}

func selectColumns() string {
	return "id, " + strings.Join(fileColumns, ", ")
}

func fileValues(rec Record) []any {
	mf := rec.File
	values := []any{mf.Path, mf.FileName, mf.FileSize, int(mf.DataKind)}
	for _, id := range textFields {
		values = append(values, nullableText(*mf.Text(id)))
	}
	for _, id := range numberFields {
		values = append(values, nullableNumber(*mf.Number(id)))
	}
	var albumID any
	if mf.SongAlbumID.IsSet() {
		albumID = mf.SongAlbumID.Value()
	}
	return append(values,
		albumID,
		nullableText(mf.Type), nullableText(mf.CodecType), nullableText(mf.Description),
		mf.Channels, mf.BitsPerSample, mf.SampleRate, mf.Bitrate, mf.SongLength,
		boolToInt(mf.HasVideo), int(mf.Artwork), rec.MetadataCount,
		nullableString(rec.ScanRunID), rec.UpdatedAt.UTC().Format(timeLayout),
	)
}

// Upsert inserts or replaces the record stored at rec.File.Path and returns
// its row id.
func (s *Store) Upsert(ctx context.Context, rec Record) (int64, error) {
	if rec.File == nil || rec.File.Path == "" {
		return 0, errors.New("upsert: record has no path")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	updates := make([]string, 0, len(fileColumns)-1)
	for _, col := range fileColumns[1:] {
		updates = append(updates, col+" = excluded."+col)
	}
	query := "INSERT INTO files (" + strings.Join(fileColumns, ", ") + ") VALUES (" +
		makePlaceholders(len(fileColumns)) + ") ON CONFLICT(path) DO UPDATE SET " +
		strings.Join(updates, ", ") + " RETURNING id"

	args := fileValues(rec)
	var id int64
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("upsert %s: %w", rec.File.Path, err)
	}
	return id, nil
}

// GetByPath fetches the record stored for path.
func (s *Store) GetByPath(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns()+" FROM files WHERE path = ?", path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns records ordered by path.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != 0 {
		where = append(where, "media_kind = ?")
		args = append(args, uint32(filter.Kind))
	}
	if filter.AlbumID != 0 {
		where = append(where, "songalbumid = ?")
		args = append(args, filter.AlbumID)
	}
	if filter.Prefix != "" {
		where = append(where, "substr(path, 1, length(?)) = ?")
		args = append(args, filter.Prefix, filter.Prefix)
	}

	query := "SELECT " + selectColumns() + " FROM files"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY path"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM files").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// PurgeStale deletes records under root that run did not touch, returning
// how many were removed.
func (s *Store) PurgeStale(ctx context.Context, run *Run) (int64, error) {
	if run == nil || run.ID == "" {
		return 0, errors.New("purge: run is required")
	}
	res, err := s.exec(ctx,
		"DELETE FROM files WHERE substr(path, 1, length(?)) = ? AND (scan_run_id IS NULL OR scan_run_id != ?)",
		run.Root, run.Root, run.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("purge stale records: %w", err)
	}
	return res.RowsAffected()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec        Record
		path       string
		fname      string
		fileSize   int64
		dataKind   int
		albumID    sql.NullInt64
		fileType   sql.NullString
		codecType  sql.NullString
		desc       sql.NullString
		channels   uint32
		bits       uint32
		sampleRate uint32
		bitrate    uint32
		songLength uint32
		hasVideo   int
		artwork    int
		runID      sql.NullString
		updatedRaw string
	)
	texts := make([]sql.NullString, len(textFields))
	numbers := make([]sql.NullInt64, len(numberFields))

	dest := []any{&rec.ID, &path, &fname, &fileSize, &dataKind}
	for i := range texts {
		dest = append(dest, &texts[i])
	}
	for i := range numbers {
		dest = append(dest, &numbers[i])
	}
	dest = append(dest,
		&albumID, &fileType, &codecType, &desc,
		&channels, &bits, &sampleRate, &bitrate, &songLength,
		&hasVideo, &artwork, &rec.MetadataCount, &runID, &updatedRaw,
	)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	mf := mediafile.New(path)
	mf.FileName = fname
	mf.FileSize = fileSize
	mf.DataKind = mediafile.DataKind(dataKind)
	for i, id := range textFields {
		if texts[i].Valid {
			mf.Text(id).Override(texts[i].String)
		}
	}
	for i, id := range numberFields {
		if numbers[i].Valid {
			mf.Number(id).Override(uint32(numbers[i].Int64))
		}
	}
	if albumID.Valid {
		mf.SongAlbumID.Override(albumID.Int64)
	}
	mf.Type.Override(fileType.String)
	mf.CodecType.Override(codecType.String)
	mf.Description.Override(desc.String)
	mf.Channels = channels
	mf.BitsPerSample = bits
	mf.SampleRate = sampleRate
	mf.Bitrate = bitrate
	mf.SongLength = songLength
	mf.HasVideo = hasVideo != 0
	mf.Artwork = mediafile.Artwork(artwork)

	rec.File = mf
	rec.ScanRunID = runID.String
	if updated, err := parseTimeString(updatedRaw); err == nil {
		rec.UpdatedAt = updated
	}
	return &rec, nil
}
