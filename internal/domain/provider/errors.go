package provider

import "errors"

var (
	// ErrAdapterNotRegistered indicates the requested key has no adapter
	ErrAdapterNotRegistered = errors.New("provider: adapter not registered")

	// ErrMissingCredential indicates the adapter's configuration lacks a
	// required credential
	ErrMissingCredential = errors.New("provider: missing credential")

	// ErrFeedUnavailable indicates the feed endpoint could not be reached
	ErrFeedUnavailable = errors.New("provider: feed unavailable")

	// ErrFeedRequestFailed indicates the feed rejected the request
	ErrFeedRequestFailed = errors.New("provider: feed request failed")

	// ErrFeedInvalidResponse indicates the feed answered with a payload
	// that could not be interpreted
	ErrFeedInvalidResponse = errors.New("provider: feed invalid response")
)
