package engine

import "fmt"

// ConfigurationError reports invalid input to state or abstraction
// construction: wrong seat counts, malformed bet/raise arrays, negative
// fractions, empty pot, invalid board cards. Recoverable at the API
// boundary, never a panic.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}
