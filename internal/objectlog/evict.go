package objectlog

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

// EnforceRetention evicts whole groups, oldest first, until at most maxGroups
// remain. It returns the evicted group ids in ascending order and the new
// boundary (oldest retained group). Eviction and ingestion share the log
// mutex, so the monotonic-key invariant holds across both.
func (l *Log) EnforceRetention(ctx context.Context, maxGroups int) ([]uint64, uint64, error) {
	if maxGroups <= 0 {
		maxGroups = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.groups <= maxGroups {
		return nil, l.boundary, nil
	}

	evictCount := l.groups - maxGroups
	oldest, err := l.oldestGroups(evictCount)
	if err != nil {
		return nil, l.boundary, err
	}
	if len(oldest) == 0 {
		return nil, l.boundary, nil
	}

	b := l.db.NewBatch()
	defer b.Close()

	for _, g := range oldest {
		low, high := GroupEntryBounds(l.alias, g)
		if err := b.DeleteRange(low, high, nil); err != nil {
			return nil, l.boundary, err
		}
		if err := b.Delete(KeyGroupMarker(l.alias, g), nil); err != nil {
			return nil, l.boundary, err
		}
	}

	groups := l.groups - len(oldest)
	boundary := l.boundary
	if groups > 0 {
		boundary = oldest[len(oldest)-1] + 1
		// the next retained marker may sit above the evicted group's successor
		if next, ok := l.markerAtOrAbove(boundary); ok {
			boundary = next
		}
	}

	meta := trackMeta{
		HaveLast:     l.haveLast,
		LastGroup:    l.last.Location.Group,
		LastObject:   l.last.Location.Object,
		LastSubgroup: l.last.Subgroup,
		Boundary:     boundary,
		Groups:       groups,
	}
	metaBytes, err := cbor.Marshal(meta)
	if err != nil {
		return nil, l.boundary, err
	}
	if err := b.Set(KeyTrackMeta(l.alias), metaBytes, nil); err != nil {
		return nil, l.boundary, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, l.boundary, err
	}

	l.groups = groups
	l.boundary = boundary
	return oldest, boundary, nil
}

// oldestGroups scans the retained-group markers ascending and returns up to n
// group ids.
func (l *Log) oldestGroups(n int) ([]uint64, error) {
	low, high := GroupMarkerBounds(l.alias)
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	out := make([]uint64, 0, n)
	for ok := iter.First(); ok && len(out) < n; ok = iter.Next() {
		out = append(out, GroupFromMarkerKey(iter.Key()))
	}
	return out, nil
}

// markerAtOrAbove returns the smallest retained group id >= g.
func (l *Log) markerAtOrAbove(g uint64) (uint64, bool) {
	low, high := GroupMarkerBounds(l.alias)
	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return 0, false
	}
	defer iter.Close()

	if !iter.SeekGE(KeyGroupMarker(l.alias, g)) {
		return 0, false
	}
	return GroupFromMarkerKey(iter.Key()), true
}

// BoundaryLocation renders the boundary as the first Location the log can
// still serve. ok is false while the log is empty.
func (l *Log) BoundaryLocation() (moq.Location, bool) {
	g, ok := l.Boundary()
	if !ok {
		return moq.Location{}, false
	}
	return moq.Location{Group: g}, true
}
