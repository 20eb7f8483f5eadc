package montecarlo

import (
	"errors"
	"fmt"
)

// Per-trial failures. None of these abort a run; the affected metric is
// left undefined for the trial and omitted from its aggregate.
var (
	ErrUndefinedRatio    = errors.New("ratio undefined: zero investment")
	ErrNoSignChange      = errors.New("irr: cash flows do not change sign")
	ErrIRRNonConvergence = errors.New("irr: root finder did not converge")
)

// ConfigError reports an invalid simulation configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s %s", e.Field, e.Reason)
}
