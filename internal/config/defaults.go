package config

const (
	defaultEncoderBinary       = "ffmpeg"
	defaultEncoderName         = "FFmpeg"
	defaultOutputDirName       = "converted_videos"
	defaultOutputSuffix        = "_converted"
	defaultReserveInFlight     = true
	defaultHTTPBind            = "127.0.0.1:7591"
	defaultMaxConcurrent       = 2
	defaultLogDir              = "~/.local/share/mediabridge/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultSocketName          = "mediabridge.sock"
	defaultConfigPath          = "~/.config/mediabridge/config.toml"
	defaultProjectConfigName   = "mediabridge.toml"
	encoderBinaryEnv           = "MEDIABRIDGE_ENCODER"
	apiTokenEnv                = "MEDIABRIDGE_API_TOKEN"
	defaultEncoderTimeoutLimit = 24 * 60 * 60
)

// defaultSearchPaths lists install locations probed when the encoder binary
// is a bare name that is not on PATH.
var defaultSearchPaths = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"/usr/bin",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	search := make([]string, len(defaultSearchPaths))
	copy(search, defaultSearchPaths)
	return Config{
		Encoder: Encoder{
			Binary:      defaultEncoderBinary,
			Name:        defaultEncoderName,
			SearchPaths: search,
		},
		Output: Output{
			DirName:         defaultOutputDirName,
			Suffix:          defaultOutputSuffix,
			ReserveInFlight: defaultReserveInFlight,
		},
		Server: Server{
			HTTPBind:      defaultHTTPBind,
			MaxConcurrent: defaultMaxConcurrent,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
