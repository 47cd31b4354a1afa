package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_DecisionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "status 404",
			err:         &StatusError{StatusCode: 404},
			wantCode:    "404",
			wantMessage: "404",
		},
		{
			name:        "status 401",
			err:         &StatusError{StatusCode: 401},
			wantCode:    "401",
			wantMessage: "401",
		},
		{
			name:        "status 500",
			err:         &StatusError{StatusCode: 500},
			wantCode:    "500",
			wantMessage: "500",
		},
		{
			name:        "connection refused",
			err:         &TransportError{Code: "ECONNREFUSED"},
			wantCode:    "503",
			wantMessage: "ECONNREFUSED",
		},
		{
			name:        "host not found",
			err:         &TransportError{Code: "ENOTFOUND"},
			wantCode:    "502",
			wantMessage: "ENOTFOUND",
		},
		{
			name:        "other transport code",
			err:         &TransportError{Code: "EMADEUP"},
			wantCode:    "500",
			wantMessage: "EMADEUP",
		},
		{
			name:        "transport error without code",
			err:         &TransportError{},
			wantCode:    "500",
			wantMessage: "EUNSPECIFIED",
		},
		{
			name:        "plain error",
			err:         errors.New("something else entirely"),
			wantCode:    "500",
			wantMessage: "ENOERROR",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize("TestClientError", tt.err)
			require.Equal(t, "TestClientError", got.Name)
			require.Equal(t, tt.wantCode, got.Code)
			require.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestNormalize_ClientErrorPassesThroughUnchanged(t *testing.T) {
	t.Parallel()

	orig := &Error{Name: "UserDataStoreClientError", Code: "404", Message: "404"}

	got := Normalize("UserDataStoreClientError", orig)
	require.Same(t, orig, got)

	// Identity survives wrapping too.
	got = Normalize("UserDataStoreClientError", fmt.Errorf("while fetching: %w", orig))
	require.Same(t, orig, got)
}

func TestError_Status(t *testing.T) {
	t.Parallel()

	require.Equal(t, 404, (&Error{Code: "404"}).Status())
	require.Equal(t, 0, (&Error{Code: CodeNoServiceToken}).Status())
}

func TestError_ErrorString(t *testing.T) {
	t.Parallel()

	e := &Error{Name: "SubmitterClientError", Code: "503", Message: "ECONNREFUSED"}
	require.Equal(t, "SubmitterClientError 503: ECONNREFUSED", e.Error())
}
