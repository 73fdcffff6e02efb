// Package main hosts the mediascan CLI entrypoint and command graph.
//
// The Cobra command tree scans files, directory trees and network streams
// into the library database, inspects single sources without persisting
// them, and prints stored records and the field-map vocabularies. It
// centralizes configuration resolution, logger construction and store access
// so subcommands stay small; the scanning itself lives in internal/scanner.
package main
