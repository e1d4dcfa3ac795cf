package models

import (
	"time"
)

type Topic struct {
	TopicID   string    `json:"topic_id" db:"topic_id"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Author    string    `json:"author" db:"author"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TopicChanges struct {
	Subject *string
	Message *string
}

type Reply struct {
	ReplyID   string    `json:"reply_id" db:"reply_id"`
	TopicID   string    `json:"topic_id" db:"topic_id"`
	Text      string    `json:"text" db:"text"`
	Author    string    `json:"author" db:"author"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
