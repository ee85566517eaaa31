package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("OPPORTUNE_SOURCE", "mbox")
	t.Setenv("OPPORTUNE_MAX_RESULTS", "10")
	t.Setenv("OPPORTUNE_WORKERS", "not-a-number")

	cfg := DefaultConfig()
	if cfg.DefaultSource != "mbox" || cfg.MaxResults != 10 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Workers != 4 || cfg.FetchLimit != 20 || cfg.NewerThanDays != 30 || cfg.IMAPPort != 993 || !cfg.IMAPTLS {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	data := `{
  // comments are allowed
  default_source: "imap",
  imap_host: "imap.example.com",
  fetch_limit: 5,
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.DefaultSource != "imap" || cfg.IMAPHost != "imap.example.com" || cfg.FetchLimit != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MaxResults != 50 {
		t.Fatalf("expected untouched defaults, got %+v", cfg)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestInitAndLoadProxies(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OPPORTUNE_CONFIG_DIR", dir)
	t.Setenv("OPPORTUNE_PROXIES", "")

	created, err := Init()
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 files created, got %v", created)
	}
	again, err := Init()
	if err != nil || len(again) != 0 {
		t.Fatalf("second Init() = %v, %v", again, err)
	}

	proxies := "# comment\nhttp://a:1\n\nhttp://b:2\n"
	if err := os.WriteFile(filepath.Join(dir, ProxiesFileName), []byte(proxies), 0o644); err != nil {
		t.Fatalf("write proxies: %v", err)
	}
	got, err := LoadProxies("")
	if err != nil {
		t.Fatalf("LoadProxies() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"http://a:1", "http://b:2"}) {
		t.Fatalf("LoadProxies() = %v", got)
	}

	got, _ = LoadProxies(" http://c:3 , ,http://d:4")
	if !reflect.DeepEqual(got, []string{"http://c:3", "http://d:4"}) {
		t.Fatalf("LoadProxies(flag) = %v", got)
	}
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{default_source: "pop3", workers: -1}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatalf("LoadFile() error = nil, want validation error")
	}
	for _, want := range []string{"default_source", "workers"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error: %v", err)
	}
	if err := (Config{IMAPPort: 70000}).Validate(); err == nil {
		t.Fatalf("Validate() accepted port 70000")
	}
}
