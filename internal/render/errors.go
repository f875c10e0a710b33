package render

import "errors"

// Error types for the render package.
var (
	// ErrSessionStart is returned when the browser engine cannot be launched.
	ErrSessionStart = errors.New("browser session start failed")

	// ErrSessionClosed is returned when a load is attempted on a closed session.
	ErrSessionClosed = errors.New("browser session is closed")

	// ErrNavigation is returned when navigation times out or the page is unreachable.
	ErrNavigation = errors.New("page navigation failed")
)
