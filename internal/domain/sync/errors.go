package sync

import "errors"

var (
	// ErrNoEndpoint means sync is not configured; callers skip silently.
	ErrNoEndpoint = errors.New("no sync endpoint configured")
	// ErrLocked means a local edit happened too recently for a non-forced
	// pull to be safe.
	ErrLocked = errors.New("pull skipped inside local-edit lockout window")
	// ErrRemoteStale means the remote document lost last-write-wins and the
	// pull was discarded.
	ErrRemoteStale = errors.New("remote document older than local ledger")
	// ErrMalformedDocument means the remote response was not a ledger
	// document; the pull is discarded without touching local state.
	ErrMalformedDocument = errors.New("remote document malformed")
)
