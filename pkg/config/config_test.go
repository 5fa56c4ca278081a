package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdejongh/cmptree/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Compare.BufferSize != models.DefaultChunkSize {
		t.Errorf("BufferSize = %d, want %d", cfg.Compare.BufferSize, models.DefaultChunkSize)
	}
	if cfg.Output.ShowMatches || cfg.Output.Pretty || cfg.Output.Totals {
		t.Error("matches, pretty and totals should be off by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"SmallBuffer", func(c *Config) { c.Compare.BufferSize = 10 }, "compare.buffer_size"},
		{"NegativeBandwidth", func(c *Config) { c.Performance.BandwidthLimit = -5 }, "performance.bandwidth_limit"},
		{"OutputFormat", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var ve *models.ValidationError
			if err := cfg.Validate(); !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %s, want %s", ve.Field, tt.field)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Compare.BufferSize = 65536
	cfg.Compare.ErrorsAsMismatch = true
	cfg.Performance.BandwidthLimit = 1 << 20
	cfg.Output.Totals = true
	cfg.Logging.Level = "debug"

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "output:\n  pretty: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if !cfg.Output.Pretty {
		t.Error("pretty should be read from the file")
	}
	if cfg.Output.Format != "human" || cfg.Compare.BufferSize != models.DefaultChunkSize {
		t.Errorf("unset values should keep defaults, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("compare: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("LoadFromFile(bad yaml) error = %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("output:\n  format: xml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFromFile(invalid)
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("LoadFromFile(invalid) error = %v, want *ValidationError", err)
	}

	if _, err := LoadFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFromFile(missing) should fail")
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("output:\n  colour: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("LoadFromFile(unknown key) error = %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile(empty) error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("empty file should yield defaults, got %+v", cfg)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join(".config", "cmptree", "config.yaml")) {
		t.Errorf("DefaultConfigPath() = %s", path)
	}
}

func TestLoad(t *testing.T) {
	t.Run("BuiltInDefaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, source, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if source != "" {
			t.Errorf("source = %q, want empty for built-in defaults", source)
		}
		if *cfg != *Default() {
			t.Error("Load() without a file should return defaults")
		}
	})

	t.Run("DefaultLocation", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		path, err := DefaultConfigPath()
		if err != nil {
			t.Fatal(err)
		}
		cfg := Default()
		cfg.Output.Totals = true
		if err := SaveToFile(cfg, path); err != nil {
			t.Fatal(err)
		}

		loaded, source, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if source != path {
			t.Errorf("source = %q, want %q", source, path)
		}
		if !loaded.Output.Totals {
			t.Error("totals should be read from the default location")
		}
	})

	t.Run("ExplicitMissing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.yaml")
		if _, _, err := Load(path); err == nil {
			t.Error("Load(missing explicit path) should fail")
		}
	})
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := Create(Default(), path, false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := Create(Default(), path, false)
	if !errors.Is(err, ErrConfigExists) {
		t.Errorf("Create(existing) error = %v, want ErrConfigExists", err)
	}

	cfg := Default()
	cfg.Output.Pretty = true
	if err := Create(cfg, path, true); err != nil {
		t.Fatalf("Create(overwrite) error = %v", err)
	}
	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Output.Pretty {
		t.Error("overwrite should replace the file")
	}
}
