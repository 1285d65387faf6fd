package objectlog

import (
	"context"
	"errors"
	"testing"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

func TestRetentionEvictsOldestGroups(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	appendSeq(t, l,
		moq.Location{Group: 1, Object: 0},
		moq.Location{Group: 1, Object: 1},
		moq.Location{Group: 2, Object: 0},
		moq.Location{Group: 3, Object: 0},
		moq.Location{Group: 4, Object: 0},
	)
	if l.Groups() != 4 {
		t.Fatalf("groups=%d", l.Groups())
	}

	evicted, boundary, err := l.EnforceRetention(ctx, 2)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if len(evicted) != 2 || evicted[0] != 1 || evicted[1] != 2 {
		t.Fatalf("evicted=%v", evicted)
	}
	if boundary != 3 {
		t.Fatalf("boundary=%d", boundary)
	}
	if l.Groups() != 2 {
		t.Fatalf("groups after evict=%d", l.Groups())
	}

	// evicted entries gone, retained entries intact
	if _, err := l.Get(moq.Location{Group: 1, Object: 0}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("evicted entry still readable")
	}
	if _, err := l.Get(moq.Location{Group: 3, Object: 0}); err != nil {
		t.Fatalf("retained entry lost: %v", err)
	}

	// head is untouched by eviction
	head, _ := l.Head()
	if head != (moq.Location{Group: 4, Object: 0}) {
		t.Fatalf("head=%v", head)
	}
}

func TestRetentionNoopUnderBound(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	appendSeq(t, l, moq.Location{Group: 1, Object: 0}, moq.Location{Group: 2, Object: 0})

	evicted, boundary, err := l.EnforceRetention(ctx, 3)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if len(evicted) != 0 || boundary != 1 {
		t.Fatalf("unexpected eviction: %v boundary=%d", evicted, boundary)
	}
}

func TestRetentionSparseGroups(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	// group ids with gaps
	appendSeq(t, l,
		moq.Location{Group: 10, Object: 0},
		moq.Location{Group: 20, Object: 0},
		moq.Location{Group: 40, Object: 0},
	)
	evicted, boundary, err := l.EnforceRetention(ctx, 2)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if len(evicted) != 1 || evicted[0] != 10 {
		t.Fatalf("evicted=%v", evicted)
	}
	// boundary lands on the next retained marker, not the dense successor
	if boundary != 20 {
		t.Fatalf("boundary=%d", boundary)
	}
}

func TestAppendAfterFullEviction(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()
	appendSeq(t, l, moq.Location{Group: 1, Object: 0})

	if _, _, err := l.EnforceRetention(ctx, 1); err != nil {
		t.Fatalf("evict: %v", err)
	}
	// retention keeps one group; force full eviction via bound of zero clamps to one
	appendSeq(t, l, moq.Location{Group: 2, Object: 0})
	if _, _, err := l.EnforceRetention(ctx, 1); err != nil {
		t.Fatalf("evict: %v", err)
	}
	if l.Groups() != 1 {
		t.Fatalf("groups=%d", l.Groups())
	}
	b, ok := l.Boundary()
	if !ok || b != 2 {
		t.Fatalf("boundary=%d ok=%v", b, ok)
	}
	// appends within the current group keep working after older groups left
	appendSeq(t, l, moq.Location{Group: 2, Object: 1})
}
