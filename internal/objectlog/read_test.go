package objectlog

import (
	"context"
	"testing"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

func appendSeq(t *testing.T, l *Log, locs ...moq.Location) {
	t.Helper()
	ctx := context.Background()
	for _, loc := range locs {
		o := moq.Object{TrackAlias: l.Alias(), Location: loc, Payload: []byte{byte(loc.Group), byte(loc.Object)}}
		if _, err := l.Append(ctx, o); err != nil {
			t.Fatalf("append %v: %v", loc, err)
		}
	}
}

func TestReadForwardOrder(t *testing.T) {
	l := newTestLog(t)
	locs := []moq.Location{
		{Group: 1, Object: 0}, {Group: 1, Object: 1},
		{Group: 2, Object: 0}, {Group: 3, Object: 0}, {Group: 3, Object: 1},
	}
	appendSeq(t, l, locs...)

	items := l.Read(ReadOptions{Start: moq.Location{}, End: moq.LiveEdge})
	if len(items) != len(locs) {
		t.Fatalf("want %d items, got %d", len(locs), len(items))
	}
	for i, it := range items {
		if it.Location != locs[i] {
			t.Fatalf("item %d: got %v want %v", i, it.Location, locs[i])
		}
	}
}

func TestReadWindowBounds(t *testing.T) {
	l := newTestLog(t)
	appendSeq(t, l,
		moq.Location{Group: 1, Object: 0},
		moq.Location{Group: 2, Object: 0},
		moq.Location{Group: 2, Object: 1},
		moq.Location{Group: 3, Object: 0},
	)

	items := l.Read(ReadOptions{
		Start: moq.Location{Group: 2, Object: 0},
		End:   moq.Location{Group: 2, Object: 1},
	})
	if len(items) != 2 {
		t.Fatalf("want 2 items in window, got %d", len(items))
	}
	if items[0].Location != (moq.Location{Group: 2, Object: 0}) ||
		items[1].Location != (moq.Location{Group: 2, Object: 1}) {
		t.Fatalf("window read out of bounds: %v %v", items[0].Location, items[1].Location)
	}
}

func TestReadZeroEndBoundsToFirstLocation(t *testing.T) {
	l := newTestLog(t)
	appendSeq(t, l,
		moq.Location{Group: 0, Object: 0},
		moq.Location{Group: 0, Object: 1},
		moq.Location{Group: 1, Object: 0},
	)

	// A zero End is a real inclusive bound, not an unbounded scan.
	items := l.Read(ReadOptions{Start: moq.Location{}, End: moq.Location{}})
	if len(items) != 1 {
		t.Fatalf("want 1 item at (0,0), got %d", len(items))
	}
	if items[0].Location != (moq.Location{}) {
		t.Fatalf("got %v, want (0,0)", items[0].Location)
	}
}

func TestReadReverse(t *testing.T) {
	l := newTestLog(t)
	appendSeq(t, l,
		moq.Location{Group: 1, Object: 0},
		moq.Location{Group: 2, Object: 0},
		moq.Location{Group: 3, Object: 0},
	)

	items := l.Read(ReadOptions{Start: moq.Location{}, End: moq.LiveEdge, Reverse: true})
	if len(items) != 3 {
		t.Fatalf("want 3, got %d", len(items))
	}
	if items[0].Location != (moq.Location{Group: 3, Object: 0}) ||
		items[2].Location != (moq.Location{Group: 1, Object: 0}) {
		t.Fatalf("reverse order wrong: %v ... %v", items[0].Location, items[2].Location)
	}
}

func TestReadLimit(t *testing.T) {
	l := newTestLog(t)
	appendSeq(t, l,
		moq.Location{Group: 1, Object: 0},
		moq.Location{Group: 1, Object: 1},
		moq.Location{Group: 1, Object: 2},
	)
	items := l.Read(ReadOptions{Start: moq.Location{}, End: moq.LiveEdge, Limit: 2})
	if len(items) != 2 {
		t.Fatalf("limit not applied: %d", len(items))
	}
}

func TestReadPayloadRoundTrip(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	o := moq.Object{
		TrackAlias:        1,
		Location:          moq.Location{Group: 1, Object: 0},
		Subgroup:          4,
		PublisherPriority: 9,
		Status:            moq.StatusEndOfGroup,
		Payload:           []byte("frame-data"),
	}
	if _, err := l.Append(ctx, o); err != nil {
		t.Fatalf("append: %v", err)
	}
	items := l.Read(ReadOptions{Start: moq.Location{}, End: moq.LiveEdge})
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
	it := items[0]
	if string(it.Payload) != "frame-data" ||
		it.Header.Subgroup != 4 ||
		it.Header.PublisherPriority != 9 ||
		it.Header.Status != moq.StatusEndOfGroup {
		t.Fatalf("round trip mismatch: %+v", it)
	}
}
