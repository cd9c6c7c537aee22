package nasc

// Phase names one of the two lifecycle sequences a container runs.
type Phase string

const (
	// PhasePostConstruct runs post-construct hooks during Initialize.
	PhasePostConstruct Phase = "post-construct"

	// PhasePreDestroy runs pre-destroy hooks during Shutdown.
	PhasePreDestroy Phase = "pre-destroy"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// HookState tracks one lifecycle hook of one component.
// A hook only ever moves forward: Pending, Running, then Done or Failed.
type HookState int

const (
	// HookPending means the hook has not been attempted.
	HookPending HookState = iota

	// HookRunning means the hook is executing.
	HookRunning

	// HookDone means the hook returned without error.
	HookDone

	// HookFailed means the hook returned an error or panicked.
	HookFailed
)

// String returns the human-readable name of the state.
func (s HookState) String() string {
	switch s {
	case HookPending:
		return "pending"
	case HookRunning:
		return "running"
	case HookDone:
		return "done"
	case HookFailed:
		return "failed"
	default:
		return "unknown"
	}
}
