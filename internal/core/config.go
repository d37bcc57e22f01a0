// Package core contains the request dispatcher, the result builder and the
// process configuration: everything between the chat transport and the
// link resolver.
package core

import (
	"time"
)

type Config struct {
	Telegram   TelegramConfig
	Spotify    SpotifyConfig
	YouTube    YouTubeConfig
	AppleMusic AppleMusicConfig
	Server     ServerConfig
	Log        LogConfig
	App        AppConfig
}

type TelegramConfig struct {
	BotToken    string
	WebhookURL  string
	SecretToken string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type YouTubeConfig struct {
	APIKey string
}

type AppleMusicConfig struct {
	Country     string
	Language    string
	SearchLimit int
}

type ServerConfig struct {
	Host         string
	Port         int
	WebhookPath  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	AdapterTimeoutSecs int
	SearchResultLimit  int
	Language           string
}

func DefaultConfig() *Config {
	return &Config{
		AppleMusic: AppleMusicConfig{
			Country:     "US",
			Language:    "en_us",
			SearchLimit: 50,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			WebhookPath:  "/webhook",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			AdapterTimeoutSecs: 10,
			SearchResultLimit:  5,
			Language:           "en",
		},
	}
}
