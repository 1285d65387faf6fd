package objectlog

import (
	"encoding/binary"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
)

// Keyspace helpers for the session store.
//
// Layout (byte-wise, lexicographically sortable):
//   - tk/{alias_be8}/m                          (track meta: last key, boundary)
//   - tk/{alias_be8}/e/{group_be8}{object_be8}  (object entries)
//   - tk/{alias_be8}/g/{group_be8}              (retained-group markers)
//
// Entry keys order exactly like moq.Location's group-major total order, so
// range scans replay publish order and whole groups evict as one range.

var (
	trackPrefix = []byte("tk/")
	metaSuffix  = []byte("/m")
	entrySeg    = []byte("/e/")
	groupSeg    = []byte("/g/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func trackRoot(alias uint64) []byte {
	k := make([]byte, 0, len(trackPrefix)+8)
	k = append(k, trackPrefix...)
	return appendBE8(k, alias)
}

// KeyTrackMeta builds the track metadata key.
func KeyTrackMeta(alias uint64) []byte {
	return append(trackRoot(alias), metaSuffix...)
}

// KeyEntry builds the object entry key for a Location.
func KeyEntry(alias uint64, loc moq.Location) []byte {
	k := append(trackRoot(alias), entrySeg...)
	k = appendBE8(k, loc.Group)
	return appendBE8(k, loc.Object)
}

// KeyGroupMarker builds the retained-group marker key.
func KeyGroupMarker(alias uint64, group uint64) []byte {
	k := append(trackRoot(alias), groupSeg...)
	return appendBE8(k, group)
}

// EntryBounds returns [low, high) iterator bounds covering every entry of the
// track.
func EntryBounds(alias uint64) (low, high []byte) {
	low = KeyEntry(alias, moq.Location{})
	high = append(KeyEntry(alias, moq.LiveEdge), 0x00)
	return low, high
}

// GroupEntryBounds returns [low, high) iterator bounds covering one group.
func GroupEntryBounds(alias, group uint64) (low, high []byte) {
	low = KeyEntry(alias, moq.Location{Group: group})
	high = append(KeyEntry(alias, moq.Location{Group: group, Object: ^uint64(0)}), 0x00)
	return low, high
}

// GroupMarkerBounds returns [low, high) iterator bounds over all group markers.
func GroupMarkerBounds(alias uint64) (low, high []byte) {
	low = KeyGroupMarker(alias, 0)
	high = append(KeyGroupMarker(alias, ^uint64(0)), 0x00)
	return low, high
}

// LocationFromEntryKey recovers the Location from an entry key.
func LocationFromEntryKey(key []byte) moq.Location {
	if len(key) < 16 {
		return moq.Location{}
	}
	return moq.Location{
		Group:  binary.BigEndian.Uint64(key[len(key)-16 : len(key)-8]),
		Object: binary.BigEndian.Uint64(key[len(key)-8:]),
	}
}

// GroupFromMarkerKey recovers the group id from a marker key.
func GroupFromMarkerKey(key []byte) uint64 {
	if len(key) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
