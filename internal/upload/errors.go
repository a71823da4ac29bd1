package upload

import (
	"fmt"

	"insta-uploader/internal/wire"
)

// The workflow surfaces every failure as exactly one of four kinds. All of
// them end the sequence for that asset; none of them trigger a retry or
// any cleanup of server-side state created by earlier steps.

// TransportError is a non-success HTTP status from any step. It carries
// the raw status and body so the caller sees exactly what the server said.
type TransportError struct {
	Endpoint string
	Status   int
	Body     []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: unexpected response status %d: %s", e.Endpoint, e.Status, wire.ErrorMessage(e.Body))
}

// DecodeError is a response body that did not match its expected shape.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProtocolError is a well-formed response missing something the next step
// depends on, e.g. an empty upload-url list or a non-ok ack status.
type ProtocolError struct {
	Step   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Reason)
}

// ValidationError is caller input the workflow refuses to start with.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
