package apiclient

import "fmt"

// NetworkError covers transport failures and unexpected HTTP statuses.
// StatusCode is zero when the request never reached the server.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when the server answers 404 for a todo id.
// Message carries the server's message body when one was sent.
type NotFoundError struct {
	ID      string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("todo %s: %s", e.ID, e.Message)
	}

	return fmt.Sprintf("todo %s not found", e.ID)
}

// ValidationError is returned before a request is sent when the payload
// would be rejected by the server, and on a 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}

	return e.Message
}
