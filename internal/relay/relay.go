package relay

import (
	"context"
	"errors"
	"sync"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/objectlog"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/runtime"
	logpkg "github.com/shiguredo-webrtc-build/moqt-build/pkg/log"
)

// ErrNoSink rejects a subscribe without a delivery sink.
var ErrNoSink = errors.New("relay: subscribe requires a delivery sink")

// Relay owns the live window of every announced track and fans ingested
// objects out to matching subscriptions. It is the only owner of buffered
// envelope memory; subscriptions reference entries by key through the
// relay's tables and never hold entry pointers.
type Relay struct {
	rt     *runtime.Runtime
	logger logpkg.Logger

	mu        sync.Mutex
	tracks    map[string]*trackState
	nextSubID uint64
}

// trackState is one announced track: its log plus the active subscription
// set. The track mutex serializes fan-out, replay handoff, and eviction
// notification so a joining subscriber never misses or double-receives an
// object across the replay/live boundary.
type trackState struct {
	name  moq.FullTrackName
	alias uint64
	log   *objectlog.Log

	mu   sync.Mutex
	subs map[uint64]*Subscription
}

// New builds a Relay over an opened runtime.
func New(rt *runtime.Runtime) *Relay {
	return NewWithLogger(rt, logpkg.NewLogger())
}

// NewWithLogger builds a Relay with the provided base logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Relay {
	return &Relay{
		rt:     rt,
		logger: logger.With(logpkg.Component("relay")),
		tracks: make(map[string]*trackState),
	}
}

// Announce registers a track (idempotently) and returns its relay-local
// alias. Subscribing requires a prior announce; publishing announces
// implicitly since the publisher is the track's source of truth.
func (r *Relay) Announce(name moq.FullTrackName) (uint64, error) {
	t, err := r.ensureTrack(name)
	if err != nil {
		return 0, err
	}
	return t.alias, nil
}

func (r *Relay) ensureTrack(name moq.FullTrackName) (*trackState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := name.Key()
	if t, ok := r.tracks[key]; ok {
		return t, nil
	}
	meta, err := r.rt.EnsureTrack(name)
	if err != nil {
		return nil, err
	}
	l, err := r.rt.OpenLog(meta.Alias)
	if err != nil {
		return nil, err
	}
	t := &trackState{
		name:  name,
		alias: meta.Alias,
		log:   l,
		subs:  make(map[uint64]*Subscription),
	}
	r.tracks[key] = t
	r.logger.Info("track announced",
		logpkg.Str("track", name.String()), logpkg.Uint64("alias", meta.Alias))
	return t, nil
}

func (r *Relay) lookupTrack(name moq.FullTrackName) (*trackState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tracks[name.Key()]
	return t, ok
}

// Publish ingests one object on a track. Rejections (out-of-order key,
// conflicting payload, oversize) leave the track's log unmodified and are
// returned to the publisher; an identical re-ingest is a silent no-op.
// Accepted objects fan out to every active subscription whose window and
// filter admit the new Location, then retention is enforced.
func (r *Relay) Publish(ctx context.Context, name moq.FullTrackName, obj moq.Object) error {
	cfg := r.rt.Config()
	if cfg.PayloadMaxBytes > 0 && len(obj.Payload) > cfg.PayloadMaxBytes {
		return ErrPayloadTooLarge
	}

	t, err := r.ensureTrack(name)
	if err != nil {
		return err
	}
	obj.TrackAlias = t.alias

	res, err := t.log.Append(ctx, obj)
	if err != nil {
		return err
	}
	if res.Duplicate {
		return nil
	}

	evicted, boundary, err := t.log.EnforceRetention(ctx, cfg.MaxQueueGroups)
	if err != nil {
		r.logger.Error("retention enforcement failed",
			logpkg.Str("track", name.String()), logpkg.Err(err))
	}

	t.mu.Lock()
	if len(evicted) > 0 {
		r.logger.Debug("groups evicted",
			logpkg.Str("track", name.String()),
			logpkg.Int("count", len(evicted)), logpkg.Uint64("boundary", boundary))
		for _, s := range t.subs {
			s.offerEvicted(t.alias, boundary)
		}
	}
	for _, s := range t.subs {
		s.offerLive(obj, res.Ingest)
	}
	t.mu.Unlock()
	return nil
}

// Subscribe attaches a subscriber to an announced track. Buffered history
// inside the window is replayed in the requested DeliveryOrder before live
// fan-out takes over; the handoff is seamless, with no gap and no overlap.
func (r *Relay) Subscribe(name moq.FullTrackName, opts SubscribeOptions) (*Subscription, error) {
	if opts.Sink == nil {
		return nil, ErrNoSink
	}
	if !opts.Window.End.IsLiveEdge() && opts.Window.End.Less(opts.Window.Start) {
		return nil, ErrInvalidWindow
	}
	t, ok := r.lookupTrack(name)
	if !ok {
		return nil, ErrUnknownTrack
	}
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	cfg := r.rt.Config()
	r.mu.Lock()
	r.nextSubID++
	subID := r.nextSubID
	r.mu.Unlock()

	s := &Subscription{
		id:         subID,
		alias:      t.alias,
		track:      name,
		state:      StatePending,
		window:     opts.Window,
		priority:   opts.Priority,
		order:      opts.Order,
		preference: opts.Preference,
		filter:     filter,
		openUnits:  make(map[UnitKey]struct{}),
		sink:       opts.Sink,
		out:        make(chan DeliveryUnit, cfg.SubscriberBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     r.logger,
	}

	// Replay units are buffered before the track mutex is released so a
	// concurrent publish cannot enqueue a live unit ahead of history.
	t.mu.Lock()
	t.subs[subID] = s
	for _, u := range t.replayLocked(s) {
		if !s.enqueue(u) {
			break
		}
	}
	t.mu.Unlock()

	go s.run()

	r.logger.Info("subscribed",
		logpkg.Str("track", name.String()),
		logpkg.Uint64("subscription", subID),
		logpkg.Str("order", opts.Order.String()),
		logpkg.Str("preference", opts.Preference.String()))
	return s, nil
}

// UpdateWindow narrows a subscription's window. The replacement is atomic
// from the relay's perspective: fan-out sees either the old window or the
// new one, never a partial update.
func (r *Relay) UpdateWindow(s *Subscription, newStart, newEnd moq.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUnsubscribed {
		return ErrSubscriptionClosed
	}
	w, err := s.window.Narrow(newStart, newEnd)
	if err != nil {
		return err
	}
	s.window = w
	s.updates++
	return nil
}

// Unsubscribe terminates a subscription. Immediate and idempotent: units
// already handed to the transport are not recalled, no further units are
// produced, and the cursor is retained for diagnostics.
func (r *Relay) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	s.close()
	if t, ok := r.lookupTrack(s.track); ok {
		t.mu.Lock()
		delete(t.subs, s.id)
		t.mu.Unlock()
	}
}

// TrackStatus reports the live window of an announced track.
func (r *Relay) TrackStatus(name moq.FullTrackName) (TrackStatus, error) {
	t, ok := r.lookupTrack(name)
	if !ok {
		return TrackStatus{}, ErrTrackNotFound
	}
	var st TrackStatus
	st.LargestLocation, st.HasObjects = t.log.Head()
	if loc, ok := t.log.BoundaryLocation(); ok {
		st.RetentionBoundary = loc
	}
	t.mu.Lock()
	for _, s := range t.subs {
		if !s.closed() {
			st.ActiveSubscriptions++
		}
	}
	t.mu.Unlock()
	return st, nil
}

// Close terminates every subscription and waits for their writers to exit.
// The underlying runtime is owned by the caller.
func (r *Relay) Close() {
	r.mu.Lock()
	tracks := make([]*trackState, 0, len(r.tracks))
	for _, t := range r.tracks {
		tracks = append(tracks, t)
	}
	r.mu.Unlock()

	for _, t := range tracks {
		t.mu.Lock()
		subs := make([]*Subscription, 0, len(t.subs))
		for _, s := range t.subs {
			subs = append(subs, s)
		}
		t.subs = make(map[uint64]*Subscription)
		t.mu.Unlock()
		for _, s := range subs {
			s.close()
			<-s.done
		}
	}
}
