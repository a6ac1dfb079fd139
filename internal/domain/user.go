package domain

import "time"

// User is the directory record for people who open and work tickets.
type User struct {
	ID         string
	Name       string
	Email      string
	Phone      *string
	Role       string
	Department *string
	Status     string
	LastLogin  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Defaults applied when a user is created without explicit values.
const (
	DefaultUserRole   = "colaborador"
	DefaultUserStatus = "active"
)
