package config

const (
	defaultDataDir         = "~/.local/share/ttsdeck"
	defaultMediaDir        = "~/.local/share/ttsdeck/media"
	defaultLogDir          = "~/.local/share/ttsdeck/logs"
	defaultMediaBaseURL    = "https://ttsmagic.cards/files"
	defaultBackURL         = "https://ttsmagic.cards/files/card_data/backing.jpg"
	defaultParallelism     = 10
	defaultLockPollSeconds = 1
	defaultScryfallBaseURL = "https://api.scryfall.com"
	defaultScryfallAgent   = "ttsdeck/0.1"
	defaultRequestTimeout  = 30
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
		},
		Media: Media{
			BaseURL: defaultMediaBaseURL,
			BackURL: defaultBackURL,
		},
		Render: Render{
			Parallelism:     defaultParallelism,
			LockPollSeconds: defaultLockPollSeconds,
		},
		Scryfall: Scryfall{
			BaseURL:        defaultScryfallBaseURL,
			UserAgent:      defaultScryfallAgent,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
