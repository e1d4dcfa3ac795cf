package models

const (
	EventStudentCreated    = "student.created"
	EventStudentDeleted    = "student.deleted"
	EventAssignmentCreated = "assignment.created"
	EventAssignmentDeleted = "assignment.deleted"
	EventTopicCreated      = "topic.created"
	EventTopicDeleted      = "topic.deleted"
	EventReplyCreated      = "reply.created"
	EventWeekCreated       = "week.created"
	EventWeekDeleted       = "week.deleted"
	EventCommentCreated    = "comment.created"
)

// DomainEvent is published after a change is committed. Type doubles as
// the routing key.
type DomainEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	ResourceID string `json:"resource_id"`
	ParentID   string `json:"parent_id,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}
