package entitlements

import "time"

// InvalidatedEvent is published on the event bus (when one is wired) after a
// user's cache entries were dropped, so other modules can release state they
// derived from the old entitlements.
type InvalidatedEvent struct {
	UserID string
	At     time.Time
}
