// Package icy reads Shoutcast/Icecast station metadata and resolves
// playlist URLs to their first stream.
//
// Client.Fetch requests the stream with Icy-MetaData enabled, reads the
// icy-* response headers and, when the server interleaves metadata, the
// first StreamTitle block. The body is closed as soon as the metadata is
// known; no audio is consumed beyond the first metadata interval.
package icy
