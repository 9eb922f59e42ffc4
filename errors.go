package sway

import "errors"

// ErrInvalidMapping is returned when an event argument mapping is malformed
// or an event does not match the shape of its mapping.
var ErrInvalidMapping = errors.New("invalid event mapping")

// ErrInvalidOperation is returned for misuse such as writing a remotely
// driven node from the calling side or attaching an event twice.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrUnsupportedProperty is returned when a style, transform or
// interpolation key is not on the bridge allow-list.
var ErrUnsupportedProperty = errors.New("unsupported property")

// ErrUnsupportedComposition is returned when a remote loop is requested for
// a composite that sequences its children on the calling side.
var ErrUnsupportedComposition = errors.New("unsupported composition")

// ErrRemoteExecutorUnavailable is returned by every bridge operation when
// the bridge was built without an executor.
var ErrRemoteExecutorUnavailable = errors.New("remote executor unavailable")
