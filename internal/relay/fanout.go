package relay

import (
	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/objectlog"
	"github.com/shiguredo-webrtc-build/moqt-build/pkg/id"
)

// offerLive presents a freshly accepted object to one subscription. Called
// under the track mutex so live delivery cannot interleave with a concurrent
// replay handoff. Skipped objects (window miss, filter miss) still advance
// the cursor: the subscription will never see that Location again.
func (s *Subscription) offerLive(obj moq.Object, ingest id.IngestID) {
	s.mu.Lock()
	if s.state == StateUnsubscribed {
		s.mu.Unlock()
		return
	}
	if s.hasCursor && !s.cursor.Less(obj.Location) {
		s.mu.Unlock()
		return
	}
	if !s.window.Contains(obj.Location) {
		s.advanceCursor(obj.Location)
		s.mu.Unlock()
		return
	}
	if !s.filter.Eval(obj) {
		s.advanceCursor(obj.Location)
		s.mu.Unlock()
		return
	}
	u := s.buildUnitLocked(obj, ingest)
	s.advanceCursor(obj.Location)
	s.mu.Unlock()

	s.enqueue(u)
}

// offerEvicted notifies one subscription that groups below boundary were
// dropped. Any subscription whose window starts before the boundary gets
// exactly one DoesNotExist marker covering the unreachable range, its window
// is clamped, and subgroup units belonging to evicted groups are closed.
// Clamping makes the notification exactly-once: a later eviction at the same
// boundary finds the start already raised.
func (s *Subscription) offerEvicted(alias uint64, boundaryGroup uint64) {
	bloc := moq.Location{Group: boundaryGroup}

	s.mu.Lock()
	if s.state == StateUnsubscribed || !s.window.Start.Less(bloc) {
		s.mu.Unlock()
		return
	}
	units := s.evictLocked(alias, boundaryGroup, bloc)
	s.mu.Unlock()

	for _, u := range units {
		if !s.enqueue(u) {
			return
		}
	}
}

func (s *Subscription) evictLocked(alias uint64, boundaryGroup uint64, bloc moq.Location) []DeliveryUnit {
	var units []DeliveryUnit
	for key := range s.openUnits {
		if key.Group < boundaryGroup {
			delete(s.openUnits, key)
			units = append(units, DeliveryUnit{
				SubscriptionID:     s.id,
				TrackAlias:         alias,
				Key:                key,
				Done:               true,
				SubscriberPriority: s.priority,
			})
		}
	}

	marker := moq.Object{
		TrackAlias: alias,
		Location:   s.window.Start,
		Status:     moq.StatusDoesNotExist,
	}
	units = append(units, DeliveryUnit{
		SubscriptionID:     s.id,
		TrackAlias:         alias,
		Key:                UnitKey{Preference: s.preference, Group: marker.Location.Group, Subgroup: marker.Subgroup},
		Objects:            []moq.Object{marker},
		Done:               true,
		SkippedTo:          bloc,
		SubscriberPriority: s.priority,
	})

	s.window = s.window.ClampStart(bloc)
	s.advanceCursor(coveredEnd(boundaryGroup))
	return units
}

// unitKeyFor maps an object onto its delivery unit key under the
// subscription's forwarding preference. closes reports whether the object
// terminates that unit.
func (s *Subscription) unitKeyFor(obj moq.Object) (key UnitKey, closes bool) {
	switch s.preference {
	case moq.ForwardSubgroup:
		key = UnitKey{Preference: moq.ForwardSubgroup, Group: obj.Location.Group, Subgroup: obj.Subgroup}
		closes = obj.Status == moq.StatusEndOfGroup || obj.Status == moq.StatusEndOfTrack
	case moq.ForwardTrack:
		key = UnitKey{Preference: moq.ForwardTrack}
		closes = obj.Status == moq.StatusEndOfTrack
	default:
		key = UnitKey{Preference: moq.ForwardDatagram, Group: obj.Location.Group, Subgroup: obj.Subgroup}
		closes = true
	}
	return key, closes
}

func (s *Subscription) unit(key UnitKey, done bool, obj moq.Object, ingest id.IngestID) DeliveryUnit {
	return DeliveryUnit{
		SubscriptionID:     s.id,
		TrackAlias:         s.alias,
		Key:                key,
		Objects:            []moq.Object{obj},
		Done:               done,
		SubscriberPriority: s.priority,
		PublisherPriority:  obj.PublisherPriority,
		Ingest:             ingest,
	}
}

// buildUnitLocked builds an object's delivery unit and maintains open-unit
// bookkeeping. Only valid when objects arrive in ascending key order (live
// fan-out and ascending replay). Caller holds s.mu.
func (s *Subscription) buildUnitLocked(obj moq.Object, ingest id.IngestID) DeliveryUnit {
	key, done := s.unitKeyFor(obj)
	if s.preference != moq.ForwardDatagram {
		if done {
			delete(s.openUnits, key)
		} else {
			s.openUnits[key] = struct{}{}
		}
	}
	return s.unit(key, done, obj, ingest)
}

// replayLocked builds the units covering a joining subscription's share of
// the buffered history and hands the cursor off at the tail, so a live
// object accepted after the track mutex is released is delivered exactly
// once. Caller holds t.mu; the returned units are enqueued after s is
// registered.
func (t *trackState) replayLocked(s *Subscription) []DeliveryUnit {
	head, ok := t.log.Head()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var units []DeliveryUnit

	if b, hasBoundary := t.log.Boundary(); hasBoundary {
		bloc := moq.Location{Group: b}
		if s.window.Start.Less(bloc) {
			units = s.evictLocked(t.alias, b, bloc)
		}
	}

	start := s.window.Start
	end := s.window.End
	if end.IsLiveEdge() || head.Less(end) {
		end = head
	}
	if end.Less(start) {
		s.advanceCursor(head)
		return units
	}

	reverse := s.order == moq.DeliveryDescending
	items := t.log.Read(objectlog.ReadOptions{
		Start:   start,
		End:     end,
		Reverse: reverse,
	})
	var closed map[UnitKey]bool
	if reverse {
		closed = make(map[UnitKey]bool)
	}
	for _, it := range items {
		obj := moq.Object{
			TrackAlias:        t.alias,
			Location:          it.Location,
			Subgroup:          it.Header.Subgroup,
			PublisherPriority: it.Header.PublisherPriority,
			Status:            it.Header.Status,
			Payload:           it.Payload,
		}
		if !s.filter.Eval(obj) {
			continue
		}
		if !reverse {
			units = append(units, s.buildUnitLocked(obj, it.Header.IngestID()))
			continue
		}
		// A reverse scan meets a unit's closing marker before its members,
		// so open-unit bookkeeping is reconciled after the loop instead.
		key, closes := s.unitKeyFor(obj)
		if closes {
			closed[key] = true
		}
		units = append(units, s.unit(key, closes, obj, it.Header.IngestID()))
	}
	if reverse && s.preference != moq.ForwardDatagram {
		for _, u := range units {
			if u.Done || closed[u.Key] {
				continue
			}
			s.openUnits[u.Key] = struct{}{}
		}
	}

	// The whole buffered range is now covered; live fan-out resumes strictly
	// above the head observed under the track mutex.
	s.advanceCursor(head)
	return units
}
