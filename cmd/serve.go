package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/ai/gemini"
	"github.com/safestay/safestay/internal/catalog"
	"github.com/safestay/safestay/internal/logger"
	"github.com/safestay/safestay/internal/secrets"
	"github.com/safestay/safestay/internal/server"
	"github.com/safestay/safestay/internal/store"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the safestay HTTP server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, for example :8080")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting safestay", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	listings, err := catalog.LoadListings()
	if err != nil {
		logger.Fatal("loading listings catalog", zap.Error(err))
	}
	profiles, err := catalog.LoadProfiles()
	if err != nil {
		logger.Fatal("loading roommates catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("listings", listings.Len()),
		zap.Int("profiles", profiles.Len()),
	)

	serverCfg := server.Config{
		Listings:       listings,
		Profiles:       profiles,
		RequestTimeout: config.RequestTimeout,
	}

	if config.AI != nil && config.AI.Enabled {
		ranker, summarizer, err := newAIServices(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building ai services", zap.Error(err))
		}
		serverCfg.Ranker = ranker
		serverCfg.Summarizer = summarizer
	} else {
		logger.Warn("ai is disabled, matching and summarization endpoints will refuse requests")
	}

	if config.Redis != nil && config.Redis.Address != "" {
		st, err := newStore(ctx, config.Redis, logger)
		if err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		serverCfg.Saved = st
		serverCfg.Reports = st
	} else {
		logger.Warn("redis is not configured, saved listings and reports endpoints will refuse requests")
	}

	srv := server.New(serverCfg, logger)

	httpServer := &http.Server{
		Addr:              config.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutting down", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("address", config.Listen))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server failed", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newAIServices(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Ranker, *gemini.Summarizer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY_FILE",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, nil, err
	}

	aiLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	ranker := gemini.NewRanker(generator, cfg.Gemini.MaxLogLength, aiLogger)
	summarizer := gemini.NewSummarizer(generator, cfg.Gemini.MaxLogLength, aiLogger)

	return ranker, summarizer, nil
}

func newStore(ctx context.Context, cfg *RedisConfig, logger *zap.Logger) (*store.Store, error) {
	password := ""
	if cfg.PasswordFile != "" {
		loaded, err := secrets.Load(secrets.Source{
			Name: "redis password",
			File: cfg.PasswordFile,
		})
		if err != nil {
			return nil, err
		}
		password = loaded
	}

	client, err := store.Dial(ctx, store.Options{
		Address:  cfg.Address,
		Password: password,
		DB:       cfg.DB,
	}, logger)
	if err != nil {
		return nil, err
	}

	return store.New(client, logger), nil
}
