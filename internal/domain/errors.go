package domain

import "errors"

// Error kinds of the service. EmptyResult is deliberately absent: no matches
// is an ordinary conversational outcome, not an error.
var (
	// ErrConfiguration marks missing or corrupt reference data. Fatal for
	// the calculation, never retried.
	ErrConfiguration = errors.New("reference data missing or corrupt")

	// ErrNotFound marks a missing almanac record or user profile.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed dates, times or calendar kinds.
	ErrValidation = errors.New("validation failed")

	// ErrExternalService marks a timeout or failure of the text-generation
	// service, the vector index or the geo cache. Must never be collapsed
	// into an empty result.
	ErrExternalService = errors.New("external service unavailable")
)

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool      { return errors.Is(err, ErrValidation) }
func IsConfiguration(err error) bool   { return errors.Is(err, ErrConfiguration) }
func IsExternalService(err error) bool { return errors.Is(err, ErrExternalService) }

// BusinessError is a business-logic error that has already been logged in
// the use case; outer layers must not log it again.
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}
