package identity

import "time"

// User is a waste bank participant.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
