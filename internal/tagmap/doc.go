// Package tagmap normalizes container, ID3, Vorbis and MP4 tag vocabularies
// into mediafile records.
//
// A Map is an ordered, read-only table of tag keys. Extract walks a Map
// against one tag dictionary and populates fields the record does not yet
// carry, so the first source to supply a field wins. Classify picks the
// codec-specific map that runs ahead of the Generic map.
package tagmap
