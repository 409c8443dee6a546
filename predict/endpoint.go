// Package predict is the request client for the prediction service: one round
// trip per submission, resolved to the raw response field or a typed failure.
package predict

import "net/http"

const (
	defaultFailureMessage   = "Request failed"
	defaultTransportMessage = "An error occurred while contacting the prediction service"
)

// Endpoint names one operation of the prediction service.
type Endpoint struct {
	Name   string // e.g. "rainfall"
	Method string // http.MethodPost or http.MethodGet
	Path   string // joined onto the client's base URL
	Field  string // response field to extract: "prediction", "analysis", "data"

	// FailureMessage is reported for a non-2xx response with no usable "error".
	FailureMessage string
	// TransportMessage is reported when the service can't be reached or the
	// body isn't JSON.
	TransportMessage string
}

func (e Endpoint) method() string {
	if e.Method == "" {
		return http.MethodPost
	}
	return e.Method
}

func (e Endpoint) failureMessage() string {
	if e.FailureMessage == "" {
		return defaultFailureMessage
	}
	return e.FailureMessage
}

func (e Endpoint) transportMessage() string {
	if e.TransportMessage == "" {
		return defaultTransportMessage
	}
	return e.TransportMessage
}
