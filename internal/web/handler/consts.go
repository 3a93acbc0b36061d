package handler

const (
	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// ErrNilADFatalLogMsg is used if the app or deps pointer is nil.
	ErrNilADFatalLogMsg = "app or deps is nil"

	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "access_token"

	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refresh_token"
)
