package pipeline

// RunState is the top-level state of a run.
type RunState int

const (
	StateInit RunState = iota
	StateListingLoaded
	StateIterating
	StateFinalizing
	StateDone
	// StateFatal is entered when the listing cannot be loaded. The run still
	// moves on to StateFinalizing.
	StateFatal
)

func (s RunState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateListingLoaded:
		return "listing_loaded"
	case StateIterating:
		return "iterating"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// EntityState is the outcome of visiting one entity.
type EntityState int

const (
	EntityPending EntityState = iota
	EntityFetching
	EntitySuccess
	// EntitySentinel means retries ran out or the page was missing; the
	// record carries "-" for every mined field.
	EntitySentinel
)

func (s EntityState) String() string {
	switch s {
	case EntityPending:
		return "pending"
	case EntityFetching:
		return "fetching"
	case EntitySuccess:
		return "success"
	case EntitySentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}
