// Package config loads mediascan's TOML configuration, applies defaults and
// environment fallbacks, and validates the result.
//
// Load resolves the config path (explicit flag, ~/.config/mediascan, then
// ./mediascan.toml), expands ~ in every path field, and returns a Config
// that the CLI, scanner, and library store consume directly. CreateSample
// writes the embedded sample used by `mediascan config init`.
package config
