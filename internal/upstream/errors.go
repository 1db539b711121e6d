package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies why an upstream call failed.
type Kind string

const (
	KindRequest   Kind = "request"   // the URL could not be turned into a request
	KindTransport Kind = "transport" // network error, timeout or cancellation
	KindRead      Kind = "read"      // body could not be read
	KindDecode    Kind = "decode"    // body is not valid JSON
)

// FetchError is the single error type returned by Client.Fetch.
type FetchError struct {
	Kind   Kind
	URL    string
	Status int // upstream HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s error (status %d) for %s: %v", e.Kind, e.Status, e.URL, e.Err)
	}
	return fmt.Sprintf("upstream %s error for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a *FetchError of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

// KindOf returns the kind of a *FetchError, or "" for any other error.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
