package config

import (
	"os"
	"strconv"
)

// FromEnv overlays MOQ_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("MOQ_VERSION"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 64); err == nil {
			cfg.Session.Version = n
		}
	}
	if v := os.Getenv("MOQ_DELIVER_PARTIAL_OBJECTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Session.DeliverPartialObjects = b
		}
	}
	if v := os.Getenv("MOQ_MAX_REQUEST_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Session.MaxRequestID = n
		}
	}
	if v := os.Getenv("MOQ_MAX_QUEUE_GROUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxQueueGroups = n
		}
	}
	if v := os.Getenv("MOQ_COMPRESS_PAYLOADS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CompressPayloads = b
		}
	}
	if v := os.Getenv("MOQ_COMPRESS_MIN_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CompressMinBytes = n
		}
	}
	if v := os.Getenv("MOQ_SUBSCRIBER_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SubscriberBuffer = n
		}
	}
	if v := os.Getenv("MOQ_PAYLOAD_MAX_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PayloadMaxBytes = n
		}
	}
	if v := os.Getenv("MOQ_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
}
