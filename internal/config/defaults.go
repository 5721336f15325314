package config

const (
	defaultDataDir            = "~/.local/share/iconforge"
	defaultLogDir             = "~/.local/share/iconforge/logs"
	defaultAPIBind            = "127.0.0.1:7423"
	defaultTextGenBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultTextGenModel       = "google/gemini-3-flash-preview"
	defaultTextGenReferer     = "https://github.com/iconforge/iconforge"
	defaultTextGenTitle       = "Iconforge"
	defaultTextGenTimeout     = 60
	defaultImageGenBinary     = "generate-image"
	defaultImageGenTimeout    = 300
	defaultBGRemoveBinary     = "remove-background"
	defaultBGRemoveTimeout    = 120
	defaultNotifyTimeout      = 10
	defaultQueueCapacity      = 64
	defaultErrorRetryInterval = 1
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TextGen: TextGen{
			BaseURL:        defaultTextGenBaseURL,
			Model:          defaultTextGenModel,
			Referer:        defaultTextGenReferer,
			Title:          defaultTextGenTitle,
			TimeoutSeconds: defaultTextGenTimeout,
		},
		ImageGen: ImageGen{
			Binary:         defaultImageGenBinary,
			TimeoutSeconds: defaultImageGenTimeout,
		},
		BGRemove: BGRemove{
			Binary:         defaultBGRemoveBinary,
			TimeoutSeconds: defaultBGRemoveTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Icons:          true,
			Errors:         true,
		},
		Workflow: Workflow{
			QueueCapacity:      defaultQueueCapacity,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
