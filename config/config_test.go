package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFull(t *testing.T) {
	yaml := `
host: 0.0.0.0
port: 9000
root: ./app
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.Root != "./app" {
		t.Errorf("root = %q", cfg.Root)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("port: 8123\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Host != DefaultHost {
		t.Errorf("host = %q, want default %q", cfg.Host, DefaultHost)
	}
	if cfg.Root != DefaultRoot {
		t.Errorf("root = %q, want default %q", cfg.Root, DefaultRoot)
	}
	if cfg.Port != 8123 {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Host != DefaultHost || cfg.Port != DefaultPort || cfg.Root != DefaultRoot {
		t.Errorf("empty document should yield all defaults, got %+v", cfg)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("port: [not a number")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParseInvalidPort(t *testing.T) {
	for _, doc := range []string{"port: -1\n", "port: 99999\n"} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("expected a validation error for %q", strings.TrimSpace(doc))
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "elmserve.yaml")
	if err := os.WriteFile(path, []byte("port: 8500\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8500 {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
