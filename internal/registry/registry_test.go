package registry

import (
	"testing"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	pebblestore "github.com/shiguredo-webrtc-build/moqt-build/internal/storage/pebble"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{Memory: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestEnsureTrackIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	name := moq.NewFullTrackName("video", "live", "camera")

	m1, err := r.EnsureTrack(name)
	if err != nil {
		t.Fatalf("ensure1: %v", err)
	}
	m2, err := r.EnsureTrack(name)
	if err != nil {
		t.Fatalf("ensure2: %v", err)
	}
	if m1.Alias != m2.Alias || m1.CreatedAtMs != m2.CreatedAtMs {
		t.Fatalf("not idempotent: %+v vs %+v", m1, m2)
	}
	if m1.Alias == 0 {
		t.Fatalf("alias zero is reserved")
	}
}

func TestAliasAllocationDistinct(t *testing.T) {
	r := newTestRegistry(t)
	a, err := r.EnsureTrack(moq.NewFullTrackName("video", "live"))
	if err != nil {
		t.Fatalf("ensure a: %v", err)
	}
	b, err := r.EnsureTrack(moq.NewFullTrackName("audio", "live"))
	if err != nil {
		t.Fatalf("ensure b: %v", err)
	}
	if a.Alias == b.Alias {
		t.Fatalf("aliases must be distinct: %d", a.Alias)
	}
}

func TestLookupByNameAndAlias(t *testing.T) {
	r := newTestRegistry(t)
	name := moq.NewFullTrackName("video", "live", "camera")
	m, err := r.EnsureTrack(name)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got, ok := r.Lookup(name)
	if !ok || got.Alias != m.Alias {
		t.Fatalf("lookup by name failed: %+v ok=%v", got, ok)
	}
	key, ok := r.LookupAlias(m.Alias)
	if !ok || key != name.Key() {
		t.Fatalf("lookup by alias failed: %q ok=%v", key, ok)
	}
	if _, ok := r.Lookup(moq.NewFullTrackName("missing")); ok {
		t.Fatalf("unknown track must not resolve")
	}
}
