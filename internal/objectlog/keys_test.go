package objectlog

import (
	"bytes"
	"testing"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

func TestEntryKeysSortLikeLocations(t *testing.T) {
	locs := []moq.Location{
		{Group: 0, Object: 0},
		{Group: 0, Object: 1},
		{Group: 1, Object: 0},
		{Group: 1, Object: 300},
		{Group: 2, Object: 0},
	}
	var prev []byte
	for i, loc := range locs {
		k := KeyEntry(9, loc)
		if i > 0 && bytes.Compare(prev, k) >= 0 {
			t.Fatalf("key order broken at %v", loc)
		}
		prev = k
	}
}

func TestLocationRoundTrip(t *testing.T) {
	loc := moq.Location{Group: 42, Object: 7}
	if got := LocationFromEntryKey(KeyEntry(3, loc)); got != loc {
		t.Fatalf("got %v want %v", got, loc)
	}
}

func TestGroupMarkerRoundTrip(t *testing.T) {
	if got := GroupFromMarkerKey(KeyGroupMarker(3, 99)); got != 99 {
		t.Fatalf("got %d want 99", got)
	}
}

func TestBoundsCoverOnlyOwnTrack(t *testing.T) {
	low, high := EntryBounds(5)
	other := KeyEntry(6, moq.Location{Group: 0, Object: 0})
	if bytes.Compare(other, low) >= 0 && bytes.Compare(other, high) < 0 {
		t.Fatalf("bounds for track 5 cover track 6 entries")
	}
	own := KeyEntry(5, moq.Location{Group: 1, Object: 1})
	if !(bytes.Compare(own, low) >= 0 && bytes.Compare(own, high) < 0) {
		t.Fatalf("bounds exclude own entries")
	}
}

func TestGroupEntryBounds(t *testing.T) {
	low, high := GroupEntryBounds(5, 2)
	in := KeyEntry(5, moq.Location{Group: 2, Object: 7})
	out := KeyEntry(5, moq.Location{Group: 3, Object: 0})
	if !(bytes.Compare(in, low) >= 0 && bytes.Compare(in, high) < 0) {
		t.Fatalf("group bounds exclude own object")
	}
	if bytes.Compare(out, low) >= 0 && bytes.Compare(out, high) < 0 {
		t.Fatalf("group bounds leak into next group")
	}
}
