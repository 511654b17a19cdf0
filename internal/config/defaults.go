package config

const (
	defaultDatabasePath     = "~/.local/share/plexmirror/catalog.db"
	defaultImageDir         = "~/.local/share/plexmirror/images"
	defaultLogDir           = "~/.local/share/plexmirror/logs"
	defaultRequestTimeout   = 300
	defaultImageWorkers     = 10
	defaultRetryAttempts    = 3
	defaultRetryBackoff     = 2
	defaultProgressInterval = 50
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			Libraries:      []string{"Movies", "TV Shows", "Music"},
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			DatabasePath: defaultDatabasePath,
			ImageDir:     defaultImageDir,
			LogDir:       defaultLogDir,
		},
		Sync: Sync{
			Parallel:         true,
			DownloadImages:   true,
			ImageWorkers:     defaultImageWorkers,
			RetryAttempts:    defaultRetryAttempts,
			RetryBackoff:     defaultRetryBackoff,
			ProgressInterval: defaultProgressInterval,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
