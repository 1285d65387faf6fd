package relaycmd

import (
	"context"
	"fmt"
	"time"

	cfgpkg "github.com/shiguredo-webrtc-build/moqt-build/internal/config"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/relay"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/runtime"
	logpkg "github.com/shiguredo-webrtc-build/moqt-build/pkg/log"
)

// DemoOptions configure the in-process demo run.
type DemoOptions struct {
	Config          cfgpkg.Config
	Groups          int
	ObjectsPerGroup int
	Logger          logpkg.Logger
}

// RunDemo drives an in-process publisher, relay, and two subscribers: one
// joining before the first object, one joining mid-stream to exercise
// replay and the retention boundary. Every delivered unit is logged.
func RunDemo(ctx context.Context, opts DemoOptions) error {
	if opts.Groups <= 0 {
		opts.Groups = 4
	}
	if opts.ObjectsPerGroup <= 0 {
		opts.ObjectsPerGroup = 3
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}

	rt, err := runtime.Open(runtime.Options{Config: opts.Config})
	if err != nil {
		return err
	}
	defer rt.Close()

	r := relay.NewWithLogger(rt, logger)
	defer r.Close()

	track := moq.NewFullTrackName("video", "demo", "camera")
	if _, err := r.Announce(track); err != nil {
		return err
	}

	early, err := r.Subscribe(track, relay.SubscribeOptions{
		Window:   moq.OpenEnded(moq.Location{}),
		Priority: 1,
		Sink:     demoSink(logger, "early"),
	})
	if err != nil {
		return err
	}
	defer r.Unsubscribe(early)

	joinAt := opts.Groups / 2
	var late *relay.Subscription
	for g := 0; g < opts.Groups; g++ {
		if g == joinAt && late == nil {
			late, err = r.Subscribe(track, relay.SubscribeOptions{
				Window:     moq.OpenEnded(moq.Location{}),
				Priority:   2,
				Order:      moq.DeliveryDescending,
				Preference: moq.ForwardSubgroup,
				Sink:       demoSink(logger, "late"),
			})
			if err != nil {
				return err
			}
			defer r.Unsubscribe(late)
		}
		for o := 0; o < opts.ObjectsPerGroup; o++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			obj := moq.Object{
				Location:          moq.Location{Group: uint64(g), Object: uint64(o)},
				PublisherPriority: moq.DefaultPriority,
				Payload:           []byte(fmt.Sprintf("frame g=%d o=%d", g, o)),
			}
			if o == opts.ObjectsPerGroup-1 {
				obj.Status = moq.StatusEndOfGroup
			}
			if err := r.Publish(ctx, track, obj); err != nil {
				return err
			}
		}
	}

	// Let the subscription writers drain before reporting.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(250 * time.Millisecond):
	}

	st, err := r.TrackStatus(track)
	if err != nil {
		return err
	}
	logger.Info("demo finished",
		logpkg.Uint64("head_group", st.LargestLocation.Group),
		logpkg.Uint64("head_object", st.LargestLocation.Object),
		logpkg.Uint64("boundary_group", st.RetentionBoundary.Group),
		logpkg.Int("active_subscriptions", st.ActiveSubscriptions),
	)
	return nil
}

func demoSink(logger logpkg.Logger, name string) relay.DeliverSink {
	l := logger.With(logpkg.Str("subscriber", name))
	return relay.SinkFunc(func(_ context.Context, u relay.DeliveryUnit) error {
		if len(u.Objects) == 1 && u.Objects[0].Status == moq.StatusDoesNotExist {
			l.Info("range skipped",
				logpkg.Uint64("from_group", u.Objects[0].Location.Group),
				logpkg.Uint64("to_group", u.SkippedTo.Group))
			return nil
		}
		for _, o := range u.Objects {
			l.Info("object delivered",
				logpkg.Uint64("group", o.Location.Group),
				logpkg.Uint64("object", o.Location.Object),
				logpkg.Str("status", o.Status.String()),
				logpkg.Int("bytes", len(o.Payload)),
				logpkg.Bool("unit_done", u.Done))
		}
		return nil
	})
}
