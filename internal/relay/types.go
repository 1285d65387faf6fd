package relay

import (
	"context"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/pkg/id"
)

// UnitKey identifies the delivery unit an object belongs to under a
// subscription's forwarding preference. Datagram units are keyed by the
// object itself, Subgroup units by (group, subgroup), and Track units are the
// single unit for the subscription's lifetime (zero key fields).
type UnitKey struct {
	Preference moq.ForwardingPreference
	Group      uint64
	Subgroup   uint64
}

// DeliveryUnit is one emission handed to the transport collaborator: the
// objects appended to a unit, in publish order, plus the scheduling inputs
// the transport mux needs.
type DeliveryUnit struct {
	SubscriptionID uint64
	TrackAlias     uint64
	Key            UnitKey
	Objects        []moq.Object
	// Done marks the unit closed: always for datagrams, on
	// EndOfGroup/EndOfTrack or eviction for subgroup units, on EndOfTrack
	// for track units.
	Done bool
	// SkippedTo is set on eviction markers (Objects[0].Status ==
	// StatusDoesNotExist): the half-open range [Objects[0].Location,
	// SkippedTo) can no longer be served.
	SkippedTo moq.Location

	// Scheduling inputs, see SendOrder.
	SubscriberPriority moq.Priority
	PublisherPriority  moq.Priority
	Ingest             id.IngestID
}

// DeliverSink is the transport collaborator's receiving side. Delivery is
// advisory ordering only: the sink may defer sends under backpressure. The
// relay hands units off asynchronously and never waits for send completion.
type DeliverSink interface {
	DeliverUnit(ctx context.Context, unit DeliveryUnit) error
}

// SinkFunc adapts a function to DeliverSink.
type SinkFunc func(ctx context.Context, unit DeliveryUnit) error

// DeliverUnit implements DeliverSink.
func (f SinkFunc) DeliverUnit(ctx context.Context, unit DeliveryUnit) error {
	return f(ctx, unit)
}

// SubscribeOptions configure one subscription.
type SubscribeOptions struct {
	Window     moq.SubscribeWindow
	Priority   moq.Priority
	Order      moq.DeliveryOrder
	Preference moq.ForwardingPreference
	// Filter is an optional CEL expression evaluated per payload-bearing
	// object against {group, object, subgroup, publisher_priority, size}.
	// Status markers always pass. Empty matches everything.
	Filter string
	// Sink receives this subscription's delivery units.
	Sink DeliverSink
}

// TrackStatus summarizes a track's live window.
type TrackStatus struct {
	// LargestLocation is the head: the highest accepted Location.
	LargestLocation moq.Location
	// HasObjects is false while the track has never accepted an object.
	HasObjects bool
	// RetentionBoundary is the first Location still buffered.
	RetentionBoundary moq.Location
	// ActiveSubscriptions counts non-terminal subscriptions.
	ActiveSubscriptions int
}

// State is the subscription lifecycle: Pending until the first unit is
// handed off, Active afterwards, Unsubscribed terminal. Window narrowing is
// a self-transition on Active, counted in Updates.
type State int

const (
	StatePending State = iota
	StateActive
	StateUnsubscribed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateUnsubscribed:
		return "unsubscribed"
	default:
		return "unknown"
	}
}
