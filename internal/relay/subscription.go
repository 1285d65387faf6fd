package relay

import (
	"context"
	"math"
	"sync"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	logpkg "github.com/shiguredo-webrtc-build/moqt-build/pkg/log"
)

// Subscription is the relay-side handle for one subscriber on one track. It
// references the track's log only by key, never owns entry memory, and keeps
// a cursor of the last Location it covered (delivered or skipped).
//
// Mutation (window narrowing, unsubscribe) synchronizes against fan-out for
// this subscription only, never against the whole queue.
type Subscription struct {
	id    uint64
	alias uint64
	track moq.FullTrackName

	mu         sync.Mutex
	state      State
	window     moq.SubscribeWindow
	priority   moq.Priority
	order      moq.DeliveryOrder
	preference moq.ForwardingPreference
	filter     celFilter
	// cursor is the highest Location covered so far; valid when hasCursor.
	cursor    moq.Location
	hasCursor bool
	updates   int
	// openUnits tracks subgroup/track units not yet closed.
	openUnits map[UnitKey]struct{}

	sink   DeliverSink
	out    chan DeliveryUnit
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	logger logpkg.Logger
}

// ID returns the subscription's relay-local identifier.
func (s *Subscription) ID() uint64 { return s.id }

// Track returns the subscribed track's full name.
func (s *Subscription) Track() moq.FullTrackName { return s.track }

// State returns the current lifecycle state.
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Window returns the current (possibly narrowed, possibly clamped) window.
func (s *Subscription) Window() moq.SubscribeWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Updates returns the number of window narrowings applied.
func (s *Subscription) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Cursor returns the last covered Location. Retained after unsubscribe for
// diagnostics.
func (s *Subscription) Cursor() (moq.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.hasCursor
}

// run drains the subscription's buffered units into the sink. Delivery is
// decoupled from ingestion: a sink error or stop signal ends the writer, and
// units already handed to the sink are never recalled.
func (s *Subscription) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case u, ok := <-s.out:
			if !ok {
				return
			}
			if err := s.sink.DeliverUnit(context.Background(), u); err != nil {
				s.logger.Warn("sink rejected unit; closing subscription",
					logpkg.Uint64("subscription", s.id), logpkg.Err(err))
				s.close()
				return
			}
		}
	}
}

// close transitions to Unsubscribed and stops the writer. Idempotent.
func (s *Subscription) close() {
	s.mu.Lock()
	s.state = StateUnsubscribed
	s.mu.Unlock()
	s.once.Do(func() { close(s.stop) })
}

// closed reports the terminal state without blocking fan-out callers.
func (s *Subscription) closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateUnsubscribed
}

// enqueue hands a unit to the writer without blocking ingestion. A full
// buffer means the subscriber cannot keep up with the live edge; the
// subscription is closed rather than stalling the publisher.
func (s *Subscription) enqueue(u DeliveryUnit) bool {
	select {
	case <-s.stop:
		return false
	default:
	}
	select {
	case s.out <- u:
		s.mu.Lock()
		if s.state == StatePending {
			s.state = StateActive
		}
		s.mu.Unlock()
		return true
	default:
		s.logger.Warn("subscriber buffer overflow; closing subscription",
			logpkg.Uint64("subscription", s.id), logpkg.Int("capacity", cap(s.out)))
		s.close()
		return false
	}
}

// advanceCursor raises the cursor to loc; it never regresses.
func (s *Subscription) advanceCursor(loc moq.Location) {
	if !s.hasCursor || s.cursor.Less(loc) {
		s.cursor = loc
		s.hasCursor = true
	}
}

// coveredEnd is the highest Location an eviction marker with the given
// boundary group covers.
func coveredEnd(boundaryGroup uint64) moq.Location {
	if boundaryGroup == 0 {
		return moq.Location{}
	}
	return moq.Location{Group: boundaryGroup - 1, Object: math.MaxUint64}
}
