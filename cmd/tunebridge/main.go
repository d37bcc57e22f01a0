// Package main provides the TuneBridge CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tunebridge/internal/chat/telegram"
	"tunebridge/internal/core"
	httpserver "tunebridge/internal/http"
	"tunebridge/pkg/musiclink"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tunebridge",
	Short: "TuneBridge - cross-service music link resolver bot",
	Long: `TuneBridge is a Telegram inline bot that resolves music links across
streaming services: paste an Apple Music, Spotify or YouTube link and get the
same song or album on every other service.`,
	RunE: runTuneBridge,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, console)")
	rootCmd.PersistentFlags().String("telegram-bot-token", "", "Telegram bot token")
	rootCmd.PersistentFlags().String("telegram-webhook-url", "", "public webhook URL registered with Telegram")
	rootCmd.PersistentFlags().String("telegram-secret-token", "", "webhook secret token")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("youtube-api-key", "", "YouTube Data API key")
	rootCmd.PersistentFlags().String("applemusic-country", "US", "iTunes search storefront country")
	rootCmd.PersistentFlags().String("server-host", "0.0.0.0", "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().String("webhook-path", "/webhook", "local path the webhook is served on")
	rootCmd.PersistentFlags().Int("adapter-timeout", 10, "per-adapter timeout in seconds")
	rootCmd.PersistentFlags().Int("search-limit", 5, "maximum inline search results")
	rootCmd.PersistentFlags().String("language", "en", "bot language for user-facing messages")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("TUNEBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(&config.Log)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Telegram.BotToken = viper.GetString("telegram-bot-token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram-webhook-url")
	cfg.Telegram.SecretToken = viper.GetString("telegram-secret-token")

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")

	cfg.YouTube.APIKey = viper.GetString("youtube-api-key")

	if country := viper.GetString("applemusic-country"); country != "" {
		cfg.AppleMusic.Country = country
	}

	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	if port := viper.GetInt("server-port"); port != 0 {
		cfg.Server.Port = port
	}
	if path := viper.GetString("webhook-path"); path != "" {
		cfg.Server.WebhookPath = path
	}

	cfg.Log.Level = viper.GetString("log-level")
	if format := viper.GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}

	if timeout := viper.GetInt("adapter-timeout"); timeout != 0 {
		cfg.App.AdapterTimeoutSecs = timeout
	}
	if limit := viper.GetInt("search-limit"); limit != 0 {
		cfg.App.SearchResultLimit = limit
	}
	if language := viper.GetString("language"); language != "" {
		cfg.App.Language = language
	}

	return cfg
}

func buildLogger(cfg *core.LogConfig) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runTuneBridge(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting TuneBridge",
		zap.String("webhook_url", config.Telegram.WebhookURL),
		zap.String("language", config.App.Language))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	adapters := []musiclink.Adapter{
		musiclink.NewAppleMusicAdapter(musiclink.AppleMusicConfig{
			Country:     config.AppleMusic.Country,
			Language:    config.AppleMusic.Language,
			SearchLimit: config.AppleMusic.SearchLimit,
		}),
		musiclink.NewYouTubeAdapter(musiclink.YouTubeConfig{
			APIKey: config.YouTube.APIKey,
		}),
		musiclink.NewSpotifyAdapter(ctx, musiclink.SpotifyConfig{
			ClientID:     config.Spotify.ClientID,
			ClientSecret: config.Spotify.ClientSecret,
			SearchLimit:  config.App.SearchResultLimit,
		}),
	}

	resolver := musiclink.NewResolver(
		adapters,
		time.Duration(config.App.AdapterTimeoutSecs)*time.Second,
		logger.Named("resolver"),
	)

	metrics := httpserver.NewMetrics()

	dispatcher := core.NewDispatcher(
		resolver,
		config.App.Language,
		logger.Named("dispatcher"),
		metrics,
	)

	frontend, err := telegram.NewFrontend(
		&telegram.Config{
			BotToken:    config.Telegram.BotToken,
			WebhookURL:  webhookURL(&config.Telegram, &config.Server),
			SecretToken: config.Telegram.SecretToken,
		},
		dispatcher,
		logger.Named("telegram"),
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram frontend: %w", err)
	}

	httpServer := httpserver.NewServer(&config.Server, frontend.Handler(), metrics, logger.Named("http"))

	if err := frontend.Start(ctx); err != nil {
		return fmt.Errorf("failed to start telegram frontend: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	g.Go(func() error {
		return frontend.Run(gCtx)
	})

	logger.Info("TuneBridge started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("TuneBridge stopped with error", zap.Error(err))
		return err
	}

	logger.Info("TuneBridge stopped gracefully")
	return nil
}

// webhookURL joins the public base URL with the local webhook path so the
// registered URL and the mounted handler always agree.
func webhookURL(telegramCfg *core.TelegramConfig, serverCfg *core.ServerConfig) string {
	base := strings.TrimSuffix(telegramCfg.WebhookURL, "/")
	if strings.HasSuffix(base, serverCfg.WebhookPath) {
		return base
	}
	return base + serverCfg.WebhookPath
}

func validateConfig() error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required")
	}

	if config.Telegram.WebhookURL == "" {
		return fmt.Errorf("telegram webhook URL is required")
	}

	if config.Spotify.ClientID == "" || config.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify client credentials are required")
	}

	if config.YouTube.APIKey == "" {
		return fmt.Errorf("youtube API key is required")
	}

	return nil
}
