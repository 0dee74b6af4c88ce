package history

import (
	"encoding/json"
	"testing"
)

func TestNewPostgresStoreRejectsInvalidConfig(t *testing.T) {
	valid := func() *PostgresConfig {
		return &PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "krishigpt",
			SSLMode:  "disable",
		}
	}

	tests := []struct {
		name   string
		mutate func(*PostgresConfig)
	}{
		{"empty host", func(c *PostgresConfig) { c.Host = "" }},
		{"port out of range", func(c *PostgresConfig) { c.Port = 70000 }},
		{"empty user", func(c *PostgresConfig) { c.User = "" }},
		{"empty dbname", func(c *PostgresConfig) { c.DBName = "" }},
		{"unknown sslmode", func(c *PostgresConfig) { c.SSLMode = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if _, err := NewPostgresStore(cfg); err == nil {
				t.Error("NewPostgresStore() should reject the config")
			}
		})
	}
}

func TestPostgresMetadataEncodingRoundTrip(t *testing.T) {
	// Metadata travels through a JSONB column; Recent must decode what
	// Append wrote.
	original := map[string]any{
		"intent":      "pesticide",
		"tools_used":  []any{"get_weather"},
		"token_count": float64(128),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["intent"] != "pesticide" {
		t.Errorf("intent = %v", decoded["intent"])
	}
	tools, ok := decoded["tools_used"].([]any)
	if !ok || len(tools) != 1 || tools[0] != "get_weather" {
		t.Errorf("tools_used = %v", decoded["tools_used"])
	}
	if decoded["token_count"] != float64(128) {
		t.Errorf("token_count = %v", decoded["token_count"])
	}
}
