package cards

// ProgrammingError marks an invariant violation: the system reached a state
// that construction should have made impossible (an unreachable deal, a
// malformed tree at runtime). Per spec's error design these panic rather
// than return, since they indicate corruption, not recoverable user error.
// Declared here, the lowest-level package, so pkg/abstraction, pkg/engine,
// pkg/tree, and pkg/solver can all share one error kind instead of each
// declaring their own.
type ProgrammingError struct {
	Reason string
}

func (e *ProgrammingError) Error() string {
	return "programming error: " + e.Reason
}
