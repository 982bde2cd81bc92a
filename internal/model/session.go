package model

import "time"

// Session is the decoded content of a valid session token. It carries no
// identity: any holder is "an authenticated user".
type Session struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
}
