package relay

import "sort"

// SendOrder sorts ready-to-send units in place into transmission order:
// subscriber priority first, publisher priority second, ingest id last.
// Lower priority values are more urgent; the ingest tie-break is stable and
// deterministic, so equal-priority units transmit in arrival order.
//
// The ordering is advisory to the transport collaborator: it says what to
// send next, not when. Backpressure may defer actual sends.
func SendOrder(units []DeliveryUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if a.SubscriberPriority != b.SubscriberPriority {
			return a.SubscriberPriority < b.SubscriberPriority
		}
		if a.PublisherPriority != b.PublisherPriority {
			return a.PublisherPriority < b.PublisherPriority
		}
		return a.Ingest.Compare(b.Ingest) < 0
	})
}
