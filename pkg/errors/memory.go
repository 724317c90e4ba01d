package errors

import "fmt"

type ErrBackendUnavailable struct {
	Backend string
	Hint    string
}

func NewErrBackendUnavailable(backend, hint string) *ErrBackendUnavailable {
	return &ErrBackendUnavailable{Backend: backend, Hint: hint}
}

func (err *ErrBackendUnavailable) Error() string {
	if err.Hint == "" {
		return fmt.Sprintf("%s backend is unavailable in the current execution context", err.Backend)
	}

	return fmt.Sprintf(
		"%s backend is unavailable in the current execution context\n\n%s",
		err.Backend, err.Hint,
	)
}

type ErrUpstream struct {
	Tool string
	Err  error
}

func NewErrUpstream(tool string, err error) *ErrUpstream {
	return &ErrUpstream{Tool: tool, Err: err}
}

func (err *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream call %s failed: %v", err.Tool, err.Err)
}

func (err *ErrUpstream) Unwrap() error {
	return err.Err
}

type ErrUnknownOperation struct {
	Operation string
}

func NewErrUnknownOperation(operation string) *ErrUnknownOperation {
	return &ErrUnknownOperation{Operation: operation}
}

func (err *ErrUnknownOperation) Error() string {
	return fmt.Sprintf("unknown operation: %s", err.Operation)
}

type ErrUnknownBackend struct {
	Backend string
}

func NewErrUnknownBackend(backend string) *ErrUnknownBackend {
	return &ErrUnknownBackend{Backend: backend}
}

func (err *ErrUnknownBackend) Error() string {
	return fmt.Sprintf("unknown backend: %s", err.Backend)
}
