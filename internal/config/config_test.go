package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Session.Version != DefaultVersion {
		t.Fatalf("version default: %#x", cfg.Session.Version)
	}
	if cfg.Session.MaxRequestID != DefaultMaxRequestID {
		t.Fatalf("max request id default: %d", cfg.Session.MaxRequestID)
	}
	if cfg.MaxQueueGroups != DefaultMaxQueueGroups {
		t.Fatalf("retention default: %d", cfg.MaxQueueGroups)
	}
	if cfg.DataDir != "" {
		t.Fatalf("relay must default to in-memory state")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.json")
	data := `{"maxQueueGroups": 8, "session": {"maxRequestId": 16}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxQueueGroups != 8 {
		t.Fatalf("maxQueueGroups=%d", cfg.MaxQueueGroups)
	}
	if cfg.Session.MaxRequestID != 16 {
		t.Fatalf("maxRequestId=%d", cfg.Session.MaxRequestID)
	}
	// untouched fields keep defaults via Normalize
	if cfg.Session.Version != DefaultVersion {
		t.Fatalf("version should default: %#x", cfg.Session.Version)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	data := "maxQueueGroups: 5\ncompressPayloads: true\nsession:\n  deliverPartialObjects: true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxQueueGroups != 5 || !cfg.CompressPayloads || !cfg.Session.DeliverPartialObjects {
		t.Fatalf("yaml fields not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.json"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	cfg, err := Load("")
	if err != nil || cfg.MaxQueueGroups != DefaultMaxQueueGroups {
		t.Fatalf("empty path must yield defaults, got %+v err=%v", cfg, err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("MOQ_MAX_QUEUE_GROUPS", "12")
	t.Setenv("MOQ_COMPRESS_PAYLOADS", "true")
	t.Setenv("MOQ_MAX_REQUEST_ID", "7")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.MaxQueueGroups != 12 || !cfg.CompressPayloads || cfg.Session.MaxRequestID != 7 {
		t.Fatalf("env overlay not applied: %+v", cfg)
	}
}
