// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: per-stream codec, sample layout, disposition and tags
//   - Format: container-level metadata (duration, size, bitrate, tags)
//   - Prober: probe.Prober backed by the ffprobe binary
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Tag dictionaries are decoded into probe.Tags so the order ffprobe reports
// them in is preserved.
package ffprobe
