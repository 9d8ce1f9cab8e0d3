package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/supplydesk/search-agent/internal/auth"
	"github.com/supplydesk/search-agent/internal/backend"
	"github.com/supplydesk/search-agent/internal/config"
	redisconn "github.com/supplydesk/search-agent/internal/redis"
	"github.com/supplydesk/search-agent/internal/search"
)

type Config struct {
	SupplyAPIURL   string
	SupplyEmail    string
	SupplyPassword string
	RedisAddr      string
	RedisPassword  string
}

type Dependencies struct {
	Searcher    *search.Searcher
	Credentials *auth.CredentialCache
	Logger      *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		SupplyAPIURL:   getEnv("SUPPLY_API_URL", ""),
		SupplyEmail:    getEnv("SUPPLY_API_EMAIL", ""),
		SupplyPassword: getEnv("SUPPLY_API_PASSWORD", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	searchCfg, err := config.LoadSearchConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load search config: %w", err)
	}

	// Shared token store is optional; without Redis each process keeps its
	// own token in memory.
	var store auth.TokenStore
	if cfg.RedisAddr != "" {
		client, err := redisconn.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		store = auth.NewRedisTokenStore(client, "")
	}

	credentials, err := auth.NewCredentialCache(auth.Config{
		BaseURL:  cfg.SupplyAPIURL,
		Email:    cfg.SupplyEmail,
		Password: cfg.SupplyPassword,
		Store:    store,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential cache: %w", err)
	}

	timeout := time.Duration(searchCfg.Backend.TimeoutSeconds) * time.Second
	client, err := backend.NewClient(cfg.SupplyAPIURL, credentials, timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	searcher := search.NewSearcher(client, search.Options{
		DefaultLimit:     searchCfg.Defaults.Limit,
		DefaultThreshold: searchCfg.Defaults.Threshold,
	}, logger)

	return &Dependencies{
		Searcher:    searcher,
		Credentials: credentials,
		Logger:      logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
