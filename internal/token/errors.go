package token

import "errors"

var (
	// ErrSigning is returned when a token can not be signed, typically
	// because the configured key material is unusable.
	ErrSigning = errors.New("token signing failed")

	// ErrMalformed is returned for tokens that can not be parsed, carry an
	// unexpected algorithm, miss required claims or declare the wrong kind.
	ErrMalformed = errors.New("token malformed")

	// ErrSignature is returned for tokens whose signature does not verify
	// against the key pair of the expected kind.
	ErrSignature = errors.New("token signature invalid")

	// ErrExpired is returned for tokens whose embedded expiry has elapsed.
	ErrExpired = errors.New("token expired")

	// ErrUnknownKind is returned when the caller names a token kind the
	// manager has no key pair for.
	ErrUnknownKind = errors.New("unknown token kind")
)
