package rslock

import "errors"

// Sentinel errors returned by Manager operations. Use errors.Is to match:
//
//	if errors.Is(err, rslock.ErrUnavailable) { ... }
var (
	// ErrUnavailable means the retry budget was exhausted without ever
	// reaching quorum on any attempt. The caller may retry later or back
	// off longer; it does not mean the resource is permanently unlockable.
	ErrUnavailable = errors.New("rslock: unavailable: no quorum reached within retry budget")

	// ErrTTLExceeded means the clock ran past the usable portion of the
	// requested TTL during fan-out: the drift allowance plus elapsed time
	// consumed the entire window before any validity could be assigned.
	ErrTTLExceeded = errors.New("rslock: ttl exceeded: drift and elapsed time consumed the requested window")

	// ErrTTLTooLarge means the requested TTL exceeds maxTTL (one year), the
	// sanity cap checked by validateTTL, and was rejected before any I/O
	// was attempted.
	ErrTTLTooLarge = errors.New("rslock: ttl too large: exceeds the safely representable range")
)
