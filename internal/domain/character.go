package domain

import "time"

// Character is a player character owned by a user. Characters are created via
// the API but the progress core treats them as read-only identities.
type Character struct {
	ID        int64
	UserID    int64
	Name      string
	Class     string
	CreatedAt time.Time
}
