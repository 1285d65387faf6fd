package moq

import "math"

// Location addresses one object within a track as a (group, object) pair.
// The order is total and group-major: compare Group first, then Object.
type Location struct {
	Group  uint64
	Object uint64
}

// LiveEdge is the sentinel Location used as a window end meaning "unbounded
// / follow the live edge". It compares greater than every real Location.
var LiveEdge = Location{Group: math.MaxUint64, Object: math.MaxUint64}

// Compare returns -1, 0, or 1 ordering l against other.
func (l Location) Compare(other Location) int {
	if l.Group != other.Group {
		if l.Group < other.Group {
			return -1
		}
		return 1
	}
	if l.Object != other.Object {
		if l.Object < other.Object {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports l < other in the group-major total order.
func (l Location) Less(other Location) bool { return l.Compare(other) < 0 }

// IsLiveEdge reports whether l is the unbounded sentinel.
func (l Location) IsLiveEdge() bool { return l == LiveEdge }

// Next returns the successor of l within the same group.
func (l Location) Next() Location {
	return Location{Group: l.Group, Object: l.Object + 1}
}
