package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the hashed credential, never the plaintext.
//
// Email is the natural key used by every mutation after creation.
type User struct {
	ID        string
	FullName  string
	Email     string
	Password  string
	ImagePath string
	CreatedAt time.Time
	UpdatedAt time.Time
}

