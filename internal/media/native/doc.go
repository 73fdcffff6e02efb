// Package native reads FLAC, MP3 and MP4/M4A containers without spawning
// ffprobe.
//
// Each reader reports tags under the names ffprobe would use where a
// standard conversion exists and keeps the raw frame, comment or atom name
// otherwise, so the same tag maps apply to both backends. Inputs the readers
// do not recognize fail with probe.ErrUnsupported.
package native
