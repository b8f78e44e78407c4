package client

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// RequestError is a failed round trip to the node.
// Status is zero when the node never answered, Err holds the transport error then.
type RequestError struct {
	Err    error
	Status int
	Body   string
}

func newTransportError(err error) *RequestError {
	return &RequestError{Err: err}
}

func newStatusError(status int, body string) *RequestError {
	return &RequestError{Err: fmt.Errorf("node replied with status %d", status), Status: status, Body: body}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NodeMessage is the message of a NIS error reply like
// {"timeStamp":9111526,"error":"Bad Request","message":"FAILURE_TIMESTAMP_TOO_FAR_IN_FUTURE","status":400}.
// It is empty when the body is not such a reply.
func (e *RequestError) NodeMessage() string {
	if !gjson.Valid(e.Body) {
		return ""
	}
	return gjson.Get(e.Body, "message").String()
}

// Temporary reports whether repeating the request may succeed.
func (e *RequestError) Temporary() bool {
	return e.Status == 0 || e.Status >= 500
}

func (e *RequestError) Error() string {
	if m := e.NodeMessage(); m != "" {
		return fmt.Sprintf("%v: %s", e.Err, m)
	}
	if e.Body != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Body)
	}
	return e.Err.Error()
}

// ParseError is a node reply that is not the expected JSON.
type ParseError struct {
	Err error
}

func newParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Error() string {
	return "failed to parse node reply: " + e.Err.Error()
}

// AnnounceError is returned when the node answered an announce request with a result code other than success.
type AnnounceError struct {
	Result AnnounceResult
}

func (e *AnnounceError) Error() string {
	return fmt.Sprintf("transaction rejected by node: %s (code %d)", e.Result.Message, e.Result.Code)
}
