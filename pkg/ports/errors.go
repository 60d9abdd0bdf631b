package ports

import "errors"

var (
	// ErrUseCaseNotFound is returned by loaders when no use case has the requested name.
	ErrUseCaseNotFound = errors.New("use case not found")
	// ErrResultNotFound is returned by stores when no result has the requested id.
	ErrResultNotFound = errors.New("result not found")
)
