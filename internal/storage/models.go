package storage

import "time"

// User represents a registered user. A row exists only after the user
// has confirmed the survey registration from the bot menu.
type User struct {
	LineUserID   string
	RegisteredAt time.Time
}
