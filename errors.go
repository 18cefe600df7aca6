package hostwalk

import (
	"errors"
	"strconv"
)

// ErrResolutionLoop is reported when a lookup exceeds its alias-chase depth
// or total query budget, which on honest zones only happens on delegation or
// alias cycles.
var ErrResolutionLoop = errors.New("hostwalk: resolution loop")

type chaseLimitError struct {
	limit int
}

func (e chaseLimitError) Error() string {
	return "hostwalk: alias/delegation chain too deep (> " + strconv.Itoa(e.limit) + ")"
}

func (e chaseLimitError) Is(target error) bool {
	return target == ErrResolutionLoop
}

func (e chaseLimitError) Unwrap() error {
	return ErrResolutionLoop
}

type queryLimitError struct {
	limit int
}

func (e queryLimitError) Error() string {
	return "hostwalk: too many queries (> " + strconv.Itoa(e.limit) + "), possible loop"
}

func (e queryLimitError) Is(target error) bool {
	return target == ErrResolutionLoop
}

func (e queryLimitError) Unwrap() error {
	return ErrResolutionLoop
}
