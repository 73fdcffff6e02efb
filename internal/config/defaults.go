package config

import "path/filepath"

const (
	defaultConfigPath    = "~/.config/mediascan/config.toml"
	defaultLibraryDir    = "~/Music"
	defaultBackend       = BackendAuto
	defaultFFprobeBinary = "ffprobe"
	defaultProbeTimeout  = 30
	defaultICYTimeout    = 10
	defaultUserAgent     = "mediascan/dev"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Probe backends accepted by scan.backend.
const (
	BackendAuto    = "auto"
	BackendFFprobe = "ffprobe"
	BackendNative  = "native"
)

var defaultExtensions = []string{
	"mp3", "m4a", "m4b", "m4p", "m4v", "mp4", "mov",
	"flac", "ogg", "oga", "opus", "wav", "aif", "aiff",
	"ape", "mpc", "wma", "wmv", "mkv", "webm",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	dataDir := defaultDataDir()
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     filepath.Join(dataDir, "logs"),
			Database:   filepath.Join(dataDir, "library.db"),
		},
		Scan: Scan{
			Backend:       defaultBackend,
			FFprobeBinary: defaultFFprobeBinary,
			ProbeTimeout:  defaultProbeTimeout,
			Extensions:    append([]string(nil), defaultExtensions...),
		},
		Stream: Stream{
			ICYTimeout: defaultICYTimeout,
			UserAgent:  defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
