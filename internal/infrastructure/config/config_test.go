package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Driver != DriverFile {
		t.Errorf("storage driver = %q, want %q", cfg.Storage.Driver, DriverFile)
	}
	if cfg.Storage.Key != "desafio-depositos" {
		t.Errorf("storage key = %q", cfg.Storage.Key)
	}
	if cfg.Storage.Timeout != 5*time.Second {
		t.Errorf("storage timeout = %v", cfg.Storage.Timeout)
	}
	if cfg.Board.Locale != "pt-BR" || cfg.Board.CurrencySymbol != "R$" {
		t.Errorf("board config = %+v", cfg.Board)
	}
	if got := cfg.Server.GetAddr(); got != "127.0.0.1:8080" {
		t.Errorf("server addr = %q", got)
	}
	if cfg.Security.CORSAllowedOrigins != "" {
		t.Errorf("cors origins = %q, want none", cfg.Security.CORSAllowedOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("STORAGE_KEY", "my-board")
	t.Setenv("BOARD_LOCALE", "en-US")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Driver != DriverRedis {
		t.Errorf("storage driver = %q", cfg.Storage.Driver)
	}
	if got := cfg.Redis.GetAddr(); got != "cache:6380" {
		t.Errorf("redis addr = %q", got)
	}
	if cfg.Storage.Key != "my-board" {
		t.Errorf("storage key = %q", cfg.Storage.Key)
	}
	if cfg.Board.Locale != "en-US" {
		t.Errorf("locale = %q", cfg.Board.Locale)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "etcd"}},
		{name: "empty key", env: map[string]string{"STORAGE_KEY": " "}},
		{name: "bad port", env: map[string]string{"SERVER_PORT": "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}
