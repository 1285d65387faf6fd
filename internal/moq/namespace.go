package moq

import "strings"

// NamespaceDelimiter joins namespace segments in canonical renderings.
const NamespaceDelimiter = "/"

// TrackNamespace is an ordered sequence of opaque segments identifying the
// publisher-side grouping a track belongs to. It is an immutable value:
// equality and hashing are defined over the full segment sequence,
// order-sensitive. An empty sequence is the root namespace and is valid.
type TrackNamespace struct {
	segments []string
}

// NewTrackNamespace copies the provided segments into a namespace value.
func NewTrackNamespace(segments ...string) TrackNamespace {
	if len(segments) == 0 {
		return TrackNamespace{}
	}
	s := make([]string, len(segments))
	copy(s, segments)
	return TrackNamespace{segments: s}
}

// Segments returns a copy of the segment sequence.
func (n TrackNamespace) Segments() []string {
	if len(n.segments) == 0 {
		return nil
	}
	out := make([]string, len(n.segments))
	copy(out, n.segments)
	return out
}

// Len returns the number of segments.
func (n TrackNamespace) Len() int { return len(n.segments) }

// IsRoot reports whether the namespace has no segments.
func (n TrackNamespace) IsRoot() bool { return len(n.segments) == 0 }

// Equal reports order-sensitive segment equality.
func (n TrackNamespace) Equal(other TrackNamespace) bool {
	if len(n.segments) != len(other.segments) {
		return false
	}
	for i := range n.segments {
		if n.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// String renders the namespace with segments joined by the delimiter.
func (n TrackNamespace) String() string {
	return strings.Join(n.segments, NamespaceDelimiter)
}

// Key returns a canonical, collision-free representation usable as a map key.
// Segments are length-prefixed so "a/b"+"c" and "a"+"b/c" stay distinct.
func (n TrackNamespace) Key() string {
	var b strings.Builder
	for _, s := range n.segments {
		b.WriteString(uitoa(uint64(len(s))))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

// FullTrackName identifies one track: the namespace plus the track name.
// It is the relay's primary key.
type FullTrackName struct {
	Namespace TrackNamespace
	Name      string
}

// NewFullTrackName builds a FullTrackName from namespace segments and a name.
func NewFullTrackName(name string, segments ...string) FullTrackName {
	return FullTrackName{Namespace: NewTrackNamespace(segments...), Name: name}
}

// Equal reports value equality over namespace and name.
func (f FullTrackName) Equal(other FullTrackName) bool {
	return f.Name == other.Name && f.Namespace.Equal(other.Namespace)
}

// String renders "namespace/name".
func (f FullTrackName) String() string {
	ns := f.Namespace.String()
	if ns == "" {
		return f.Name
	}
	return ns + NamespaceDelimiter + f.Name
}

// Key returns a canonical map-key representation.
func (f FullTrackName) Key() string {
	return f.Namespace.Key() + "|" + f.Name
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
