package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned before the model is called.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTransport covers network and provider failures. The user may retry.
	ErrTransport         = errors.New("model unavailable")
	ErrEmptyResponse     = errors.New("model returned an empty response")
	ErrContractViolation = errors.New("model response violates contract")
)

// ContractError pinpoints where a response left its declared shape.
type ContractError struct {
	Operation string
	Path      string
	Reason    string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: contract violation at %s: %s", e.Operation, e.Path, e.Reason)
}

func (e *ContractError) Is(target error) bool { return target == ErrContractViolation }

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
