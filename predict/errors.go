package predict

import "errors"

// Kind separates failures the service reported from failures to talk to it.
type Kind uint8

const (
	KindServer    Kind = iota + 1 // non-2xx response
	KindTransport                 // unreachable, unreadable or non-JSON
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the failure side of a prediction call. Error() is the message a
// form shows to the user, nothing more.
type Error struct {
	Endpoint string
	Kind     Kind
	Status   int // 0 when no response was received
	Message  string
	Err      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing text for err. Errors that did not come from
// the client (a cancelled context, a bad input encoding) map to fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return fallback
}

func transportError(ep Endpoint, status int, err error) *Error {
	return &Error{
		Endpoint: ep.Name,
		Kind:     KindTransport,
		Status:   status,
		Message:  ep.transportMessage(),
		Err:      err,
	}
}
