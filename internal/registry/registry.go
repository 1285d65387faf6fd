// Package registry tracks the relay's announced tracks. Each announced full
// track name receives a relay-local alias: the compact id used on the wire
// and as the object log's key prefix. Records live in the session store so
// they share the relay's lifetime.
package registry

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	pebblestore "github.com/shiguredo-webrtc-build/moqt-build/internal/storage/pebble"
)

// Meta holds per-track registration metadata.
type Meta struct {
	FullName    string `json:"fullName"`
	Alias       uint64 `json:"alias"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

var (
	trackMetaPrefix  = []byte("tkmeta/")
	trackAliasPrefix = []byte("tkalias/")
	aliasCounterKey  = []byte("tkalias")
)

func metaKey(key string) []byte {
	k := make([]byte, 0, len(trackMetaPrefix)+len(key))
	k = append(k, trackMetaPrefix...)
	k = append(k, key...)
	return k
}

func aliasKey(alias uint64) []byte {
	k := make([]byte, 0, len(trackAliasPrefix)+8)
	k = append(k, trackAliasPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], alias)
	return append(k, b[:]...)
}

// Registry allocates aliases and resolves announced tracks.
type Registry struct {
	mu sync.Mutex
	db *pebblestore.DB
}

// New builds a Registry over the session store.
func New(db *pebblestore.DB) *Registry { return &Registry{db: db} }

// EnsureTrack registers a track if absent and returns its metadata.
// Idempotent: re-announcing returns the existing record.
func (r *Registry) EnsureTrack(name moq.FullTrackName) (Meta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := metaKey(name.Key())
	if b, err := r.db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			return m, nil
		}
		// fallthrough to rewrite if corrupted
	}

	alias, err := r.nextAlias()
	if err != nil {
		return Meta{}, err
	}
	m := Meta{
		FullName:    name.String(),
		Alias:       alias,
		CreatedAtMs: time.Now().UnixMilli(),
	}
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := r.db.Set(key, bytes); err != nil {
		return Meta{}, err
	}
	if err := r.db.Set(aliasKey(alias), []byte(name.Key())); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// Lookup resolves an announced track by full name.
func (r *Registry) Lookup(name moq.FullTrackName) (Meta, bool) {
	b, err := r.db.Get(metaKey(name.Key()))
	if err != nil || len(b) == 0 {
		return Meta{}, false
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, false
	}
	return m, true
}

// LookupAlias resolves the canonical track key for an alias.
func (r *Registry) LookupAlias(alias uint64) (string, bool) {
	b, err := r.db.Get(aliasKey(alias))
	if err != nil || len(b) == 0 {
		return "", false
	}
	return string(b), true
}

// nextAlias increments the persistent alias counter. Aliases start at 1;
// zero is reserved as "unassigned".
func (r *Registry) nextAlias() (uint64, error) {
	var next uint64 = 1
	if b, err := r.db.Get(aliasCounterKey); err == nil && len(b) >= 8 {
		next = binary.BigEndian.Uint64(b[:8]) + 1
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], next)
	if err := r.db.Set(aliasCounterKey, b[:]); err != nil {
		return 0, err
	}
	return next, nil
}
