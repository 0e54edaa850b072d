package sheets

import (
	"fmt"
)

// HTTPError is a non-2xx response from the export endpoint.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("fetch %s: unexpected status %s: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// NotFoundError indicates the spreadsheet or tab does not exist (404).
type NotFoundError struct{ *HTTPError }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("spreadsheet not found: %s", e.HTTPError.Error())
}

// AccessDeniedError indicates the sheet is not shared for export (401/403).
type AccessDeniedError struct{ *HTTPError }

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("spreadsheet not shared publicly: %s", e.HTTPError.Error())
}

// UnreachableError indicates the request never produced a response.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.URL != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
