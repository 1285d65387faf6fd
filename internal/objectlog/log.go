package objectlog

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	pebblestore "github.com/shiguredo-webrtc-build/moqt-build/internal/storage/pebble"
	"github.com/shiguredo-webrtc-build/moqt-build/pkg/id"
)

var (
	// ErrOutOfOrderObject rejects an ingest whose (group, object) regresses
	// below the track's last accepted key. The log is left unmodified.
	ErrOutOfOrderObject = errors.New("objectlog: object key below track head")
	// ErrConflictingObject rejects a re-ingest of an accepted key with a
	// different subgroup or payload.
	ErrConflictingObject = errors.New("objectlog: conflicting payload for accepted key")
	// ErrNotFound reports a missing entry.
	ErrNotFound = errors.New("objectlog: object not found")
)

// Log is the bounded live history of one track. Ingestion is serialized under
// the log mutex (single writer per track); committed entries are immutable
// until evicted, so readers iterate without locking.
type Log struct {
	db    *pebblestore.DB
	alias uint64
	codec Codec
	seq   *id.Generator

	mu       sync.Mutex
	haveLast bool
	last     moq.ObjectKey
	boundary uint64 // oldest retained group, valid when groups > 0
	groups   int
	notifyCh chan struct{}
}

// trackMeta is the persisted per-track state.
type trackMeta struct {
	HaveLast     bool   `cbor:"1,keyasint"`
	LastGroup    uint64 `cbor:"2,keyasint"`
	LastObject   uint64 `cbor:"3,keyasint"`
	LastSubgroup uint64 `cbor:"4,keyasint"`
	Boundary     uint64 `cbor:"5,keyasint"`
	Groups       int    `cbor:"6,keyasint"`
}

// OpenLog initializes a Log for a track alias and loads persisted metadata.
func OpenLog(db *pebblestore.DB, alias uint64, codec Codec, seq *id.Generator) (*Log, error) {
	if seq == nil {
		seq = id.NewGenerator()
	}
	l := &Log{db: db, alias: alias, codec: codec, seq: seq, notifyCh: make(chan struct{})}
	meta, err := db.Get(KeyTrackMeta(alias))
	if err == nil && len(meta) > 0 {
		var m trackMeta
		if err := cbor.Unmarshal(meta, &m); err == nil {
			l.haveLast = m.HaveLast
			l.last = moq.ObjectKey{
				Location: moq.Location{Group: m.LastGroup, Object: m.LastObject},
				Subgroup: m.LastSubgroup,
			}
			l.boundary = m.Boundary
			l.groups = m.Groups
		}
	}
	return l, nil
}

// Alias returns the track alias the log serves.
func (l *Log) Alias() uint64 { return l.alias }

// AppendResult reports the outcome of an accepted or deduplicated ingest.
type AppendResult struct {
	// Duplicate is true when the key was already accepted with an identical
	// payload and the log was left untouched.
	Duplicate bool
	// NewGroup is true when the object opened a group not seen before.
	NewGroup bool
	// Ingest is the stamped arrival identifier (zero for duplicates).
	Ingest id.IngestID
}

// Append ingests one object. Keys must be monotonically non-decreasing per
// track: a key below the head is rejected with ErrOutOfOrderObject unless it
// re-ingests an accepted entry, in which case an identical payload is a no-op
// and a differing one fails with ErrConflictingObject. A rejected append
// leaves the log unmodified.
func (l *Log) Append(ctx context.Context, obj moq.Object) (AppendResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loc := obj.Location
	if l.haveLast {
		switch cmp := loc.Compare(l.last.Location); {
		case cmp < 0:
			return l.checkReingest(obj)
		case cmp == 0:
			res, err := l.checkReingest(obj)
			if errors.Is(err, ErrOutOfOrderObject) {
				// head meta exists but entry missing: corrupted state
				return AppendResult{}, ErrConflictingObject
			}
			return res, err
		}
	}

	ingest := l.seq.Next()
	hdr := Header{
		Subgroup:          obj.Subgroup,
		PublisherPriority: obj.PublisherPriority,
		Status:            obj.Status,
		Ingest:            ingest.Bytes(),
	}
	val, err := l.codec.Encode(hdr, obj.Payload)
	if err != nil {
		return AppendResult{}, err
	}

	b := l.db.NewBatch()
	defer b.Close()

	if err := b.Set(KeyEntry(l.alias, loc), val, nil); err != nil {
		return AppendResult{}, err
	}

	// A fully-evicted track (groups == 0) re-opens its current group on the
	// next append so the marker and boundary are restored.
	newGroup := !l.haveLast || l.groups == 0 || loc.Group > l.last.Location.Group
	groups := l.groups
	boundary := l.boundary
	if newGroup {
		if err := b.Set(KeyGroupMarker(l.alias, loc.Group), []byte{1}, nil); err != nil {
			return AppendResult{}, err
		}
		if groups == 0 {
			boundary = loc.Group
		}
		groups++
	}

	meta := trackMeta{
		HaveLast:     true,
		LastGroup:    loc.Group,
		LastObject:   loc.Object,
		LastSubgroup: obj.Subgroup,
		Boundary:     boundary,
		Groups:       groups,
	}
	metaBytes, err := cbor.Marshal(meta)
	if err != nil {
		return AppendResult{}, err
	}
	if err := b.Set(KeyTrackMeta(l.alias), metaBytes, nil); err != nil {
		return AppendResult{}, err
	}

	if err := l.db.CommitBatch(ctx, b); err != nil {
		return AppendResult{}, err
	}

	l.haveLast = true
	l.last = moq.ObjectKey{Location: loc, Subgroup: obj.Subgroup}
	l.boundary = boundary
	l.groups = groups

	// notify waiters
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})

	return AppendResult{NewGroup: newGroup, Ingest: ingest}, nil
}

// checkReingest resolves an append at or below the head: idempotent no-op for
// an identical accepted entry, conflict for a differing one, out-of-order for
// a key never accepted.
func (l *Log) checkReingest(obj moq.Object) (AppendResult, error) {
	stored, ok := l.get(obj.Location)
	if !ok {
		return AppendResult{}, ErrOutOfOrderObject
	}
	if stored.Header.Subgroup == obj.Subgroup &&
		stored.Header.Status == obj.Status &&
		bytes.Equal(stored.Payload, obj.Payload) {
		return AppendResult{Duplicate: true}, nil
	}
	return AppendResult{}, ErrConflictingObject
}

func (l *Log) get(loc moq.Location) (Decoded, bool) {
	val, err := l.db.Get(KeyEntry(l.alias, loc))
	if err != nil || len(val) == 0 {
		return Decoded{}, false
	}
	return l.codec.Decode(val)
}

// Get returns the stored entry at loc.
func (l *Log) Get(loc moq.Location) (Item, error) {
	dec, ok := l.get(loc)
	if !ok {
		return Item{}, ErrNotFound
	}
	return Item{Location: loc, Header: dec.Header, Payload: dec.Payload}, nil
}

// Head returns the largest accepted Location, if any.
func (l *Log) Head() (moq.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last.Location, l.haveLast
}

// Boundary returns the oldest retained group. ok is false while the log is
// empty.
func (l *Log) Boundary() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.boundary, l.groups > 0
}

// Groups returns the number of retained groups.
func (l *Log) Groups() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groups
}
