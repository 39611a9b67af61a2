package inbound

import "time"

// Principal is the authenticated caller of an operation. Operations receive it
// explicitly; a nil *Principal means the request is anonymous.
type Principal struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}
