package config

const (
	defaultConfigPath        = "~/.config/karigari/config.toml"
	defaultAPIBaseURL        = "https://genaibackend-r809.onrender.com"
	defaultAPITimeoutSeconds = 60
	defaultStateDir          = "~/.local/share/karigari"
	defaultLogDir            = "~/.local/share/karigari/logs"
	defaultLogLevel          = "info"
	defaultLogFormat         = "console"
	defaultFFplayBinary      = "ffplay"
	defaultFFprobeBinary     = "ffprobe"
)

// EnvAPIBaseURL overrides the configured backend base URL when set.
const EnvAPIBaseURL = "KARIGARI_API_URL"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		History: History{
			Enabled: true,
		},
		Playback: Playback{
			FFplayBinary:  defaultFFplayBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
	}
}
