package models

import (
	"time"
)

type Assignment struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     string    `json:"due_date" db:"due_date"`
	Files       []string  `json:"files" db:"files"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type AssignmentChanges struct {
	Title       *string
	Description *string
	DueDate     *string
	Files       *[]string
}

type AssignmentComment struct {
	ID           int64     `json:"id" db:"id"`
	AssignmentID int64     `json:"assignment_id" db:"assignment_id"`
	Author       string    `json:"author" db:"author"`
	Text         string    `json:"text" db:"text"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
