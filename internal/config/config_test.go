package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ConfigYAML(t *testing.T) {
	path := filepath.Join("..", "..", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Host == "" {
		t.Fatalf("expected database.host to be set")
	}
	if cfg.RabbitMQ.Port == 0 {
		t.Fatalf("expected rabbitmq.port to be set")
	}
	if cfg.Bot.Store != "memory" && cfg.Bot.Store != "postgres" {
		t.Fatalf("unexpected bot.store: %q", cfg.Bot.Store)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown section",
			content: "caching:\n  host: localhost\n",
		},
		{
			name:    "unknown database key",
			content: "database:\n  hostname: localhost\n",
		},
		{
			name:    "invalid port",
			content: "database:\n  port: not-a-number\n",
		},
		{
			name:    "invalid bot store",
			content: "bot:\n  store: redis\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestConfig_URLs(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "orders"},
		RabbitMQ: RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest"},
	}

	wantDB := "postgres://u:p@db:5432/orders?sslmode=disable"
	if got := cfg.DatabaseURL(); got != wantDB {
		t.Errorf("DatabaseURL() = %q, want %q", got, wantDB)
	}

	wantMQ := "amqp://guest:guest@mq:5672/"
	if got := cfg.RabbitMQURL(); got != wantMQ {
		t.Errorf("RabbitMQURL() = %q, want %q", got, wantMQ)
	}
}
