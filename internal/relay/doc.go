// Package relay implements the publish/subscribe core of the live-media
// relay: per-track bounded object buffers, subscription windows, forwarding
// preferences, and fan-out to delivery sinks.
//
// A publisher announces a track and publishes moq.Objects in non-decreasing
// Location order. The relay buffers the most recent groups (the live
// window), evicting whole groups beyond the retention bound, and fans each
// accepted object out to every subscription whose window and filter admit
// it. Subscribers joining mid-stream are served buffered history first, in
// their requested DeliveryOrder, then handed off to live delivery with no
// gap and no overlap.
//
// Delivery is asynchronous: each subscription owns a writer goroutine that
// drains buffered DeliveryUnits into the subscriber's sink, so a slow sink
// never stalls ingestion. A subscriber that falls behind its buffer is
// disconnected rather than backpressuring the publisher.
package relay
