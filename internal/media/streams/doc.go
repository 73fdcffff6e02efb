// Package streams picks the representative audio and video streams of a
// container and derives per-stream audio properties.
//
// Selection rules:
//  1. The first audio stream wins; later audio streams are ignored.
//  2. Cover art (attached_pic) never becomes the video stream but marks the
//     selection as carrying embedded artwork.
//  3. The first remaining video stream wins unless the caller treats the
//     file as audio-only.
package streams
