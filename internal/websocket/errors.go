// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrFeedBacklogged = errors.New("activity feed backlogged")
	ErrUnsupported    = errors.New("unsupported event type")
)
