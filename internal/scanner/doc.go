// Package scanner turns probed containers into canonical media records.
//
// Assemble is the record assembler: it selects the representative streams,
// classifies the dominant codec, runs the extra and generic field maps over
// every tag dictionary, applies network overrides and the final fallbacks.
// It performs no I/O.
//
// Scanner drives Assemble for local files, HTTP streams, and whole
// directory trees. Tree scans fan out over a bounded worker pool and persist
// each record through a Sink, normally the library store.
package scanner
