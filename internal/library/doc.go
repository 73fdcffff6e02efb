// Package library persists assembled media records and scan runs in SQLite.
//
// Records are keyed by path and upserted on every scan. Every tag-mappable
// field is stored in a column named after its FieldID, with NULL meaning
// unset, so a record read back reports the same populated fields it was
// written with. Scan runs carry a UUID that also tags log lines. Writers
// hold an exclusive file lock beside the database for the duration of a scan.
package library
