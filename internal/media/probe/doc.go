// Package probe defines the container description shared by the media
// backends and the scanner.
//
// A Container carries the streams, durations and tag dictionaries a backend
// read from one file or stream. Backends implement Prober; Auto chains a
// native reader in front of ffprobe.
package probe
