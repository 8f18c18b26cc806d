package domain

// EngineState is the retrieval engine's lifecycle state. The engine
// moves Uninitialized -> Building -> Ready on first use, Ready ->
// Rebuilding -> Ready when a corpus or model change forces a
// rebuild, and lands in Failed when a build cannot complete.
type EngineState int32

const (
	// StateUninitialized means no build has been attempted.
	StateUninitialized EngineState = iota

	// StateBuilding means the initial build is in progress.
	// Queries fail fast with ErrEngineNotReady.
	StateBuilding

	// StateReady means an index snapshot is queryable.
	StateReady

	// StateRebuilding means a replacement snapshot is being built.
	// Queries continue against the previous snapshot.
	StateRebuilding

	// StateFailed means the last build attempt failed and no
	// snapshot is queryable.
	StateFailed
)

// String implements fmt.Stringer.
func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateRebuilding:
		return "rebuilding"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Queryable reports whether searches can be served in this state.
func (s EngineState) Queryable() bool {
	return s == StateReady || s == StateRebuilding
}

// EngineStats describes the engine and its active snapshot for
// status reporting. Documents and Model are zero until the first
// successful build.
type EngineStats struct {
	State     EngineState
	Documents int
	Model     ModelIdentity
}
