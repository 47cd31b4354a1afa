package client

import (
	"errors"
	"fmt"
	"strconv"
)

// Named codes and messages shared by every client built on this package.
// Domain packages add their own construction codes (ENOSUBMITTERURL etc.).
const (
	CodeNoServiceToken = "ENOSERVICETOKEN"
	CodeInvalidPayload = "EINVALIDPAYLOAD"
	CodeUnspecified    = "EUNSPECIFIED"
	CodeNoError        = "ENOERROR"
	CodeNotFound       = "ENOTFOUND"
	CodeConnRefused    = "ECONNREFUSED"
)

// Error is the single error taxonomy of the library. Name tags which client
// produced it ("UserDataStoreClientError", "SubmitterClientError"); Code is
// either a named code such as ENOSERVICETOKEN or a decimal HTTP-style status
// ("404"). Callers branch on Code: 404 means "expired/not found" in the
// datastore domain, 5xx means operational failure. Retryability is the
// caller's decision.
type Error struct {
	Name    string
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Name, e.Code, e.Message)
}

// Status returns the numeric form of Code, or 0 when Code is a named code.
func (e *Error) Status() int {
	s, err := strconv.Atoi(e.Code)
	if err != nil {
		return 0
	}
	return s
}

// StatusError reports a non-2xx HTTP response from the far side.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status %d", e.StatusCode)
}

// TransportError reports a failure before any HTTP response arrived. Code
// holds a syscall-style name (ECONNREFUSED, ENOTFOUND, ...) when the failure
// could be classified, and is empty otherwise.
type TransportError struct {
	Code  string
	Cause error
}

func (e *TransportError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("transport failure: %v", e.Cause)
	}
	return fmt.Sprintf("transport failure %s: %v", e.Code, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// Normalize maps any failure of an outbound call onto the stable Error
// taxonomy. The decision table is evaluated top to bottom, first match wins:
//
//	already an *Error            -> unchanged (identity preserved)
//	*StatusError with status S   -> code S, message S (404 included)
//	*TransportError ENOTFOUND    -> 502, ENOTFOUND
//	*TransportError ECONNREFUSED -> 503, ECONNREFUSED
//	*TransportError other code C -> 500, C
//	*TransportError empty code   -> 500, EUNSPECIFIED
//	anything else                -> 500, ENOERROR
//
// Every domain client's error behavior is fully determined by this table.
func Normalize(name string, err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	var se *StatusError
	if errors.As(err, &se) {
		code := strconv.Itoa(se.StatusCode)
		return &Error{Name: name, Code: code, Message: code}
	}

	var te *TransportError
	if errors.As(err, &te) {
		switch te.Code {
		case CodeNotFound:
			return &Error{Name: name, Code: "502", Message: CodeNotFound}
		case CodeConnRefused:
			return &Error{Name: name, Code: "503", Message: CodeConnRefused}
		case "":
			return &Error{Name: name, Code: "500", Message: CodeUnspecified}
		default:
			return &Error{Name: name, Code: "500", Message: te.Code}
		}
	}

	return &Error{Name: name, Code: "500", Message: CodeNoError}
}
