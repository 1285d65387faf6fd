package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Protocol defaults applied when a field is left zero. Carried in explicit
// configuration rather than process-wide state.
const (
	// DefaultVersion is the protocol draft version offered at session start.
	DefaultVersion uint64 = 0xff00000d
	// DefaultMaxRequestID bounds concurrently outstanding subscribe/fetch
	// operations per session. Exceeding it is a caller error.
	DefaultMaxRequestID uint64 = 100
	// DefaultMaxQueueGroups is the live window retention bound: the number
	// of most-recent groups a track keeps buffered before evicting.
	DefaultMaxQueueGroups = 3
)

// SessionParameters are negotiated once at session start and never mutated.
type SessionParameters struct {
	Version               uint64 `json:"version" yaml:"version"`
	DeliverPartialObjects bool   `json:"deliverPartialObjects" yaml:"deliverPartialObjects"`
	MaxRequestID          uint64 `json:"maxRequestId" yaml:"maxRequestId"`
}

// Config is the top-level relay configuration loaded from file/env.
type Config struct {
	Session SessionParameters `json:"session" yaml:"session"`
	// MaxQueueGroups is the per-track retention bound in whole groups.
	MaxQueueGroups int `json:"maxQueueGroups" yaml:"maxQueueGroups"`
	// CompressPayloads zstd-compresses buffered payloads above the threshold.
	CompressPayloads bool `json:"compressPayloads" yaml:"compressPayloads"`
	// CompressMinBytes is the smallest payload considered for compression.
	CompressMinBytes int `json:"compressMinBytes" yaml:"compressMinBytes"`
	// SubscriberBuffer is the buffered unit capacity per subscription writer.
	SubscriberBuffer int `json:"subscriberBuffer" yaml:"subscriberBuffer"`
	// PayloadMaxBytes rejects oversized publishes when >0.
	PayloadMaxBytes int `json:"payloadMaxBytes" yaml:"payloadMaxBytes"`
	// DataDir switches the buffer store to disk for debugging when set.
	// Empty (the default) keeps all relay state in memory.
	DataDir string `json:"dataDir" yaml:"dataDir"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Session: SessionParameters{
			Version:      DefaultVersion,
			MaxRequestID: DefaultMaxRequestID,
		},
		MaxQueueGroups:   DefaultMaxQueueGroups,
		CompressMinBytes: 512,
		SubscriberBuffer: 1024,
		PayloadMaxBytes:  1 << 20,
	}
}

// Normalize fills zero fields with defaults.
func (c *Config) Normalize() {
	d := Default()
	if c.Session.Version == 0 {
		c.Session.Version = d.Session.Version
	}
	if c.Session.MaxRequestID == 0 {
		c.Session.MaxRequestID = d.Session.MaxRequestID
	}
	if c.MaxQueueGroups <= 0 {
		c.MaxQueueGroups = d.MaxQueueGroups
	}
	if c.CompressMinBytes <= 0 {
		c.CompressMinBytes = d.CompressMinBytes
	}
	if c.SubscriberBuffer <= 0 {
		c.SubscriberBuffer = d.SubscriberBuffer
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.Normalize()
	return cfg, nil
}
