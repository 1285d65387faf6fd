package runtime

import (
	"context"
	"errors"

	cfgpkg "github.com/shiguredo-webrtc-build/moqt-build/internal/config"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/objectlog"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/registry"
	pebblestore "github.com/shiguredo-webrtc-build/moqt-build/internal/storage/pebble"
	"github.com/shiguredo-webrtc-build/moqt-build/pkg/id"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Fsync  pebblestore.FsyncMode
}

// Runtime wires the buffer store, track registry, and ingest stamping for a
// single relay instance. The store is in-memory unless the config pins a
// data directory for debugging.
type Runtime struct {
	db     *pebblestore.DB
	reg    *registry.Registry
	seq    *id.Generator
	config cfgpkg.Config
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	cfg.Normalize()
	db, err := pebblestore.Open(pebblestore.Options{
		Memory:  cfg.DataDir == "",
		DataDir: cfg.DataDir,
		Fsync:   opts.Fsync,
	})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		db:     db,
		reg:    registry.New(db),
		seq:    id.NewGenerator(),
		config: cfg,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// EnsureTrack registers a track record if absent and returns its metadata.
func (r *Runtime) EnsureTrack(name moq.FullTrackName) (registry.Meta, error) {
	return r.reg.EnsureTrack(name)
}

// OpenLog opens the object log for a track alias. All logs share the ingest
// sequence generator so arrival stamps are comparable across tracks.
func (r *Runtime) OpenLog(alias uint64) (*objectlog.Log, error) {
	codec := objectlog.Codec{}
	if r.config.CompressPayloads {
		codec.CompressMinBytes = r.config.CompressMinBytes
	}
	return objectlog.OpenLog(r.db, alias, codec, r.seq)
}

// Registry exposes the track registry.
func (r *Runtime) Registry() *registry.Registry { return r.reg }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
