package solver

import "fmt"

// CheckpointError reports a failure loading or saving infoset arrays: a
// missing path, a truncated file, or a byte count that doesn't match what
// the current run's tree expects.
type CheckpointError struct {
	Path   string
	Reason string
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint error at %q: %s", e.Path, e.Reason)
}
