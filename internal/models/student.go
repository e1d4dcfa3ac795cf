package models

import (
	"time"
)

// Student is the stored account. PasswordHash never leaves the service.
type Student struct {
	StudentID    string    `json:"student_id" db:"student_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// StudentChanges carries the columns an update touches; nil means unchanged.
type StudentChanges struct {
	Name  *string
	Email *string
}
