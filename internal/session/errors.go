package session

import "errors"

// ErrUnavailable is returned when the session registry can not be
// reached. Callers must treat it as "unknown", never as "absent".
var ErrUnavailable = errors.New("session store unavailable")
