package api

import (
	"errors"
	"fmt"
)

// TimeoutMessage is the user-facing text of a client-side deadline.
const TimeoutMessage = "Request timed out - please try again"

// Op names a resource-client operation. Each Op carries one fixed
// message that is shown to the user regardless of the underlying cause.
type Op string

const (
	OpFetchAssets   Op = "fetch assets"
	OpCreateAsset   Op = "create asset"
	OpUpdateAsset   Op = "update asset"
	OpDeleteAsset   Op = "delete asset"
	OpFetchRequests Op = "fetch requests"
	OpCreateRequest Op = "create request"
	OpUpdateRequest Op = "update request"
	OpFetchStats    Op = "fetch stats"
	OpHealth        Op = "health check"
)

// Message returns the fixed human-readable text for the operation.
func (o Op) Message() string {
	switch o {
	case OpFetchAssets:
		return "Failed to fetch assets"
	case OpCreateAsset:
		return "Failed to create asset"
	case OpUpdateAsset:
		return "Failed to update asset"
	case OpDeleteAsset:
		return "Failed to delete asset"
	case OpFetchRequests:
		return "Failed to fetch requests"
	case OpCreateRequest:
		return "Failed to create request"
	case OpUpdateRequest:
		return "Failed to update request"
	case OpFetchStats:
		return "Failed to fetch stats"
	case OpHealth:
		return "Health check failed"
	default:
		return "Request failed"
	}
}

// OpError is returned by every resource-client call that fails.
type OpError struct {
	Op  Op
	Err error
}

// Error returns the operation's fixed message. A timeout keeps its own
// message so the user is told to try again.
func (e *OpError) Error() string {
	var timeout *TimeoutError
	if errors.As(e.Err, &timeout) {
		return timeout.Error()
	}
	return e.Op.Message()
}

func (e *OpError) Unwrap() error { return e.Err }

// Detail renders the operation and its cause for log output.
func (e *OpError) Detail() string {
	if e.Err == nil {
		return string(e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// TimeoutError reports that the client-imposed deadline fired and the
// in-flight call was aborted.
type TimeoutError struct {
	Method string
	Path   string
}

func (e *TimeoutError) Error() string { return TimeoutMessage }

// NetworkError reports a transport failure before any response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("execute request: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a non-success status. Response bodies are not parsed.
type APIError struct {
	Path       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// DecodeError reports a response body that does not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode response: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// IsTimeout reports whether err was caused by the client deadline.
func IsTimeout(err error) bool {
	var timeout *TimeoutError
	return errors.As(err, &timeout)
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}
