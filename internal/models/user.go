package models

import "time"

// User represents a registered account
type User struct {
	Email        string `boltholdKey:"Email"`
	PasswordHash string
	FullName     string

	DateJoined time.Time
	LastLogin  *time.Time
	IsActive   bool
}
