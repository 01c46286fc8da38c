package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "0123456789abcdef",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Errorf("expected postgres store, got %q", cfg.StoreDriver)
	}
	if !cfg.Postgres.Migrate {
		t.Errorf("expected migrations enabled by default")
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "0123456789abcdef",
		"STORE_DRIVER": "mongo",
		"MONGO_DB":     "crm",
		"FRONTEND_URL": "https://app.example.com",
		"TOKEN_TTL":    "90m",
		"REDIS_ADDR":   "redis:6379",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StoreDriver != StoreDriverMongo || cfg.Mongo.Database != "crm" {
		t.Errorf("unexpected store config: %+v %+v", cfg.StoreDriver, cfg.Mongo)
	}
	if cfg.FrontendURL != "https://app.example.com" {
		t.Errorf("unexpected frontend url %q", cfg.FrontendURL)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("unexpected ttl %v", cfg.TokenTTL)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("unexpected redis addr %q", cfg.Redis.Addr)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_ShortSecretAndBadDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "short",
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}
