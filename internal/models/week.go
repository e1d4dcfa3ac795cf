package models

import (
	"time"
)

type Week struct {
	WeekID      string    `json:"week_id" db:"week_id"`
	Title       string    `json:"title" db:"title"`
	StartDate   string    `json:"start_date" db:"start_date"`
	Description string    `json:"description" db:"description"`
	Links       []string  `json:"links" db:"links"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type WeekChanges struct {
	Title       *string
	StartDate   *string
	Description *string
	Links       *[]string
}

type WeekComment struct {
	ID        int64     `json:"id" db:"id"`
	WeekID    string    `json:"week_id" db:"week_id"`
	Author    string    `json:"author" db:"author"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
