package objectlog

import (
	"github.com/cockroachdb/pebble"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

// ReadOptions bound a range scan over a track's entries. Start and End are
// both inclusive: a zero End bounds the scan to the first Location, so
// unbounded reads must pass moq.LiveEdge explicitly. Reverse scans from End
// down to Start.
type ReadOptions struct {
	Start   moq.Location
	End     moq.Location
	Limit   int
	Reverse bool
}

// Item is a decoded stored object.
type Item struct {
	Location moq.Location
	Header   Header
	Payload  []byte
}

// Read returns up to Limit items within [Start, End]. Committed entries are
// immutable, so the scan takes no lock; entries evicted mid-scan are simply
// absent from the iterator snapshot.
func (l *Log) Read(opts ReadOptions) []Item {
	low := KeyEntry(l.alias, opts.Start)
	high := append(KeyEntry(l.alias, opts.End), 0x00)

	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	items := make([]Item, 0, max(1, opts.Limit))
	if err != nil {
		return items
	}
	defer iter.Close()

	if opts.Reverse {
		for ok := iter.Last(); ok && (opts.Limit == 0 || len(items) < opts.Limit); ok = iter.Prev() {
			if it, decOK := l.decodeIter(iter); decOK {
				items = append(items, it)
			}
		}
		return items
	}

	for ok := iter.First(); ok && (opts.Limit == 0 || len(items) < opts.Limit); ok = iter.Next() {
		if it, decOK := l.decodeIter(iter); decOK {
			items = append(items, it)
		}
	}
	return items
}

func (l *Log) decodeIter(iter *pebble.Iterator) (Item, bool) {
	dec, ok := l.codec.Decode(iter.Value())
	if !ok {
		return Item{}, false
	}
	return Item{
		Location: LocationFromEntryKey(iter.Key()),
		Header:   dec.Header,
		Payload:  dec.Payload,
	}, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
