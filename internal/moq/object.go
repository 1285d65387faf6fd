package moq

// Priority orders competing deliveries. Lower values are more urgent; ties
// are broken by ingest sequence number. Both publishers and subscribers carry
// one.
type Priority uint8

// DefaultPriority is the midpoint of the priority range.
const DefaultPriority Priority = 128

// DeliveryOrder controls the order in which already-buffered objects are
// replayed to a subscriber joining mid-stream. Live objects are always
// delivered in publish order regardless of this setting.
type DeliveryOrder uint8

const (
	DeliveryAscending DeliveryOrder = iota
	DeliveryDescending
)

func (d DeliveryOrder) String() string {
	switch d {
	case DeliveryAscending:
		return "ascending"
	case DeliveryDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// ForwardingPreference governs how a subscription's objects are grouped into
// delivery units. It is a closed set matched explicitly at fan-out.
type ForwardingPreference uint8

const (
	// ForwardDatagram emits every object as its own standalone unit.
	ForwardDatagram ForwardingPreference = iota
	// ForwardSubgroup coalesces objects sharing (group, subgroup) into one
	// ordered unit, closed by EndOfGroup/EndOfTrack or eviction.
	ForwardSubgroup
	// ForwardTrack keeps a single long-lived unit for the whole track.
	ForwardTrack
)

func (p ForwardingPreference) String() string {
	switch p {
	case ForwardDatagram:
		return "datagram"
	case ForwardSubgroup:
		return "subgroup"
	case ForwardTrack:
		return "track"
	default:
		return "unknown"
	}
}

// ObjectStatus marks an envelope as carrying a payload or a stream marker.
type ObjectStatus uint8

const (
	// StatusNormal is a payload-bearing object.
	StatusNormal ObjectStatus = iota
	// StatusDoesNotExist marks a Location (or range) the relay can no longer
	// serve, typically after eviction. Delivered in-band; not an error.
	StatusDoesNotExist
	// StatusEndOfGroup marks the final object of a group.
	StatusEndOfGroup
	// StatusEndOfTrack marks the final object of the whole track.
	StatusEndOfTrack
)

func (s ObjectStatus) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusDoesNotExist:
		return "does_not_exist"
	case StatusEndOfGroup:
		return "end_of_group"
	case StatusEndOfTrack:
		return "end_of_track"
	default:
		return "unknown"
	}
}

// Object is the envelope exchanged between publisher and relay: payload plus
// addressing, status, and priority.
type Object struct {
	// TrackAlias is the relay-local short id assigned at announce time.
	TrackAlias uint64
	Location   Location
	Subgroup   uint64
	// PublisherPriority orders this object against others on the same
	// transport path; lower is more urgent.
	PublisherPriority Priority
	Status            ObjectStatus
	Payload           []byte
}

// Key returns the (group, object, subgroup) ingest key. Within one track the
// (group, object) component must be monotonically non-decreasing.
func (o Object) Key() ObjectKey {
	return ObjectKey{Location: o.Location, Subgroup: o.Subgroup}
}

// ObjectKey identifies an ingested object within a track.
type ObjectKey struct {
	Location Location
	Subgroup uint64
}

// Compare orders keys by Location first, Subgroup second.
func (k ObjectKey) Compare(other ObjectKey) int {
	if c := k.Location.Compare(other.Location); c != 0 {
		return c
	}
	if k.Subgroup != other.Subgroup {
		if k.Subgroup < other.Subgroup {
			return -1
		}
		return 1
	}
	return 0
}
