package auth

import "github.com/gofiber/fiber/v2"

// Code classifies why a request was rejected by the gate or the guard.
type Code int

const (
	// CodeMissing means the request carried no credential at all.
	CodeMissing Code = iota + 1
	// CodeMalformed means a credential was present but unusable.
	CodeMalformed
	// CodeExpired means the credential's embedded lifetime has elapsed.
	CodeExpired
	// CodeRevoked means the credential is well-formed but its session is
	// no longer registered.
	CodeRevoked
	// CodeUnknownPrincipal means the session resolved to a subject that
	// no longer exists.
	CodeUnknownPrincipal
	// CodeForbidden means the principal authenticated fine but lacks the
	// role for the route.
	CodeForbidden
	// CodeInfra means a backing system failed and the real answer is
	// unknown. The gate fails closed.
	CodeInfra
)

// String returns the log-friendly name of the code.
func (c Code) String() string {
	switch c {
	case CodeMissing:
		return "missing"
	case CodeMalformed:
		return "malformed"
	case CodeExpired:
		return "expired"
	case CodeRevoked:
		return "revoked"
	case CodeUnknownPrincipal:
		return "unknown_principal"
	case CodeForbidden:
		return "forbidden"
	case CodeInfra:
		return "infra"
	default:
		return "unknown"
	}
}

// Error is a classified rejection. The Code drives status and message
// selection; the wrapped cause is for logs only and never leaves the
// server.
type Error struct {
	Code  Code
	cause error
}

// NewError builds a classified rejection around an optional cause.
func NewError(code Code, cause error) *Error {
	return &Error{Code: code, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return "auth: " + e.Code.String() + ": " + e.cause.Error()
	}

	return "auth: " + e.Code.String()
}

// Unwrap exposes the cause for errors.Is checks in logs and tests.
func (e *Error) Unwrap() error {
	return e.cause
}

// Status maps the code to the HTTP status the client sees.
func (e *Error) Status() int {
	switch e.Code {
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeInfra:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusUnauthorized
	}
}

// Message returns the external message for the code. The wording is
// deliberately coarse: a caller probing with forged, expired or revoked
// tokens gets the same answer for all of them.
func (e *Error) Message() string {
	switch e.Code {
	case CodeMissing:
		return "authentication required"
	case CodeForbidden:
		return "permission denied"
	case CodeInfra:
		return "something went wrong"
	default:
		return "authentication token is invalid or expired"
	}
}
