package relay

import (
	"errors"

	"github.com/shiguredo-webrtc-build/moqt-build/internal/moq"
	"github.com/shiguredo-webrtc-build/moqt-build/internal/objectlog"
)

var (
	// ErrUnknownTrack rejects subscribes to tracks never announced.
	ErrUnknownTrack = errors.New("relay: unknown track")
	// ErrTrackNotFound reports a status query for a track never announced.
	ErrTrackNotFound = errors.New("relay: track not found")
	// ErrSubscriptionClosed rejects operations on an unsubscribed handle.
	ErrSubscriptionClosed = errors.New("relay: subscription closed")
	// ErrPayloadTooLarge rejects publishes above the configured bound.
	ErrPayloadTooLarge = errors.New("relay: payload exceeds configured maximum")

	// Re-exported engine errors so callers handle one taxonomy.
	ErrOutOfOrderObject    = objectlog.ErrOutOfOrderObject
	ErrConflictingObject   = objectlog.ErrConflictingObject
	ErrInvalidWindow       = moq.ErrInvalidWindow
	ErrInvalidWindowUpdate = moq.ErrInvalidWindowUpdate
)
