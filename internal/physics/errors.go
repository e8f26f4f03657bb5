package physics

import "errors"

// ErrNonFiniteInput indicates a NaN or infinite angle or torque. The spin-up
// loop has no stop condition for such values.
var ErrNonFiniteInput = errors.New("physics: non-finite input (NaN or Inf)")
