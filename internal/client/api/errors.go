package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind string

const (
	// KindNetwork marks a transport failure with no server response.
	KindNetwork Kind = "network"
	// KindAuth marks a 401: the session was rejected by the server.
	KindAuth Kind = "auth"
	// KindValidation marks a 4xx complaint about the request content.
	KindValidation Kind = "validation"
	// KindNotFound marks a 404: the target is absent or not owned.
	KindNotFound Kind = "not_found"
	// KindServer marks a 5xx.
	KindServer Kind = "server"
)

// Error is the normalized form of every failed request. Status is zero for
// network errors; Message is the server-provided text when present, else a
// generic fallback.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// kindForStatus maps an HTTP status code to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuth reports whether err is an authentication rejection.
func IsAuth(err error) bool { return IsKind(err, KindAuth) }

// IsNotFound reports whether err is a not-found rejection.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool { return IsKind(err, KindNetwork) }

// IsServer reports whether err is a server-side failure.
func IsServer(err error) bool { return IsKind(err, KindServer) }
