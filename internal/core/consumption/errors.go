package consumption

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks calls whose arguments are malformed: a missing
// record collection, an unusable period, an unknown unit or a non-positive
// offset. It is returned before any computation and is never worth retrying.
var ErrContractViolation = errors.New("consumption contract violation")

func contractViolationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, fmt.Sprintf(format, args...))
}
