// Package mediafile defines the canonical media-file record produced by a scan.
//
// A MediaFile is created empty (or seeded by the caller with size, name, data
// kind and media kind), filled by the tag extraction engine and the record
// assembler, then handed to the persistence layer. Every tag-derived field is
// a Field value that knows whether it has been populated, so "first source
// wins" is an explicit state rather than a zero-value convention.
//
// FieldID names every mappable field; tag maps target fields through it
// instead of reaching into the struct directly.
package mediafile
