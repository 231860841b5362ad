package domain

import "errors"

// FailureKind classifies a user-visible failure
type FailureKind string

const (
	FailureNotFound            FailureKind = "not-found"
	FailureLocationUnavailable FailureKind = "location-unavailable"
	FailureNetwork             FailureKind = "network-error"
)

// User-facing messages
const (
	MessageNotFound               = "City not found. Please try again."
	MessageLocationUnavailable    = "Unable to retrieve your location."
	MessageGeolocationUnsupported = "Geolocation is not supported by this browser."
	MessageNetwork                = "Could not fetch weather data."
)

// ErrEmptyQuery is returned when a name lookup is asked for a blank city.
// It is not a failure: callers treat it as "no query yet".
var ErrEmptyQuery = errors.New("empty query")

// Failure is the error type returned by the weather client and the
// geolocation resolvers. Message is what the user sees; Err is the cause.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return string(f.Kind) + ": " + f.Err.Error()
	}
	return string(f.Kind) + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

func NotFound(err error) *Failure {
	return &Failure{Kind: FailureNotFound, Message: MessageNotFound, Err: err}
}

func LocationUnavailable(err error) *Failure {
	return &Failure{Kind: FailureLocationUnavailable, Message: MessageLocationUnavailable, Err: err}
}

func GeolocationUnsupported() *Failure {
	return &Failure{Kind: FailureLocationUnavailable, Message: MessageGeolocationUnsupported}
}

func NetworkError(err error) *Failure {
	return &Failure{Kind: FailureNetwork, Message: MessageNetwork, Err: err}
}

// AsFailure extracts a *Failure from err. Anything else is reported as a
// network error so callers always have a message to show.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return NetworkError(err)
}
