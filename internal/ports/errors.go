package ports

import "errors"

var (
	// ErrNotFound reports that the addressed vessel visit notification does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownDock reports a dock code that is not registered.
	ErrUnknownDock = errors.New("unknown dock")
	// ErrUnauthorized reports a rejected credential at a collaborator boundary.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstreamUnavailable reports that a collaborator could not be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrStalePlan reports that a plan no longer matches the current dock assignments.
	ErrStalePlan = errors.New("stale plan")
)
