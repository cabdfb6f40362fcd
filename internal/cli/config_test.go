package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dagscii/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Spacing != pipeline.SpacingCompact {
		t.Errorf("Spacing = %q, want %q", cfg.Spacing, pipeline.SpacingCompact)
	}
	if cfg.Spaces != pipeline.DefaultSpaces {
		t.Errorf("Spaces = %d, want %d", cfg.Spaces, pipeline.DefaultSpaces)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.GroupPrefix != nil {
		t.Error("GroupPrefix should be unset by default")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error for missing file: %v", err)
	}
	if cfg.Spacing != pipeline.SpacingCompact {
		t.Error("missing config file should yield defaults")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
spacing = "fixed"
spaces = 6
group_labels_by_prefix = false

[server]
addr = ":9090"
redis = "localhost:6379"
mongo_database = "graphs"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Spacing != pipeline.SpacingFixed {
		t.Errorf("Spacing = %q, want %q", cfg.Spacing, pipeline.SpacingFixed)
	}
	if cfg.Spaces != 6 {
		t.Errorf("Spaces = %d, want 6", cfg.Spaces)
	}
	if cfg.GroupPrefix == nil || *cfg.GroupPrefix {
		t.Error("GroupPrefix should be set to false")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Server.Redis != "localhost:6379" {
		t.Errorf("Server.Redis = %q, want %q", cfg.Server.Redis, "localhost:6379")
	}
	if cfg.Server.MongoDatabase != "graphs" {
		t.Errorf("Server.MongoDatabase = %q, want %q", cfg.Server.MongoDatabase, "graphs")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `spaces = 8`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Spaces != 8 {
		t.Errorf("Spaces = %d, want 8", cfg.Spaces)
	}
	// Unset fields keep their defaults.
	if cfg.Spacing != pipeline.SpacingCompact {
		t.Errorf("Spacing = %q, want default %q", cfg.Spacing, pipeline.SpacingCompact)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, ":8080")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, `spacing = [not toml`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail for malformed TOML")
	}
}

func TestLoadConfigInvalidSpacing(t *testing.T) {
	path := writeConfig(t, `spacing = "diagonal"`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should reject unknown spacing modes")
	}
}
