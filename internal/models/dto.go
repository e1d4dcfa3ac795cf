package models

import (
	"strings"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/validation"
)

// ListOptions are the raw list query parameters; the repository maps
// unknown sort/order values to per-resource defaults.
type ListOptions struct {
	Search string
	Sort   string
	Order  string
}

type CreateStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,max=50"`
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

func (r *CreateStudentRequest) Sanitize() {
	r.StudentID = validation.CleanString(r.StudentID)
	r.Name = validation.CleanString(r.Name)
	r.Email = validation.NormalizeEmail(r.Email)
}

type UpdateStudentRequest struct {
	StudentID string  `json:"student_id" validate:"required,max=50"`
	Name      *string `json:"name" validate:"omitempty,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
}

func (r *UpdateStudentRequest) Sanitize() {
	r.StudentID = validation.CleanString(r.StudentID)
	r.Name = validation.CleanOptional(r.Name)
	r.Email = validation.TrimOptional(r.Email)
	if r.Email != nil {
		email := validation.NormalizeEmail(*r.Email)
		r.Email = &email
	}
}

func (r *UpdateStudentRequest) Changes() StudentChanges {
	return StudentChanges{Name: r.Name, Email: r.Email}
}

func (c StudentChanges) Empty() bool {
	return c.Name == nil && c.Email == nil
}

// Passwords are compared as sent; they are never trimmed or escaped.
type ChangePasswordRequest struct {
	StudentID       string `json:"student_id" validate:"required,max=50"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

func (r *ChangePasswordRequest) Sanitize() {
	r.StudentID = validation.CleanString(r.StudentID)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Sanitize() {
	r.Username = strings.TrimSpace(r.Username)
}

type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

type CreateAssignmentRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	DueDate     string   `json:"due_date" validate:"required,isodate"`
	Files       []string `json:"files" validate:"dive,safeurl"`
}

func (r *CreateAssignmentRequest) Sanitize() {
	r.Title = validation.CleanString(r.Title)
	r.Description = validation.CleanString(r.Description)
	r.DueDate = strings.TrimSpace(r.DueDate)
	r.Files = validation.CleanList(r.Files)
}

type UpdateAssignmentRequest struct {
	ID          int64     `json:"id" validate:"required,gt=0"`
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"due_date" validate:"omitempty,isodate"`
	Files       *[]string `json:"files" validate:"omitempty,dive,safeurl"`
}

func (r *UpdateAssignmentRequest) Sanitize() {
	r.Title = validation.CleanOptional(r.Title)
	r.Description = validation.CleanOptional(r.Description)
	r.DueDate = validation.TrimOptional(r.DueDate)
	if r.Files != nil {
		files := validation.CleanList(*r.Files)
		r.Files = &files
	}
}

func (r *UpdateAssignmentRequest) Changes() AssignmentChanges {
	return AssignmentChanges{Title: r.Title, Description: r.Description, DueDate: r.DueDate, Files: r.Files}
}

func (c AssignmentChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.DueDate == nil && c.Files == nil
}

type CreateAssignmentCommentRequest struct {
	AssignmentID int64  `json:"assignment_id" validate:"required,gt=0"`
	Author       string `json:"author" validate:"required,max=255"`
	Text         string `json:"text" validate:"required"`
}

func (r *CreateAssignmentCommentRequest) Sanitize() {
	r.Author = validation.CleanString(r.Author)
	r.Text = validation.CleanString(r.Text)
}

type CreateTopicRequest struct {
	TopicID string `json:"topic_id" validate:"required,max=50"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
	Author  string `json:"author" validate:"required,max=255"`
}

func (r *CreateTopicRequest) Sanitize() {
	r.TopicID = validation.CleanString(r.TopicID)
	r.Subject = validation.CleanString(r.Subject)
	r.Message = validation.CleanString(r.Message)
	r.Author = validation.CleanString(r.Author)
}

type UpdateTopicRequest struct {
	TopicID string  `json:"topic_id" validate:"required,max=50"`
	Subject *string `json:"subject" validate:"omitempty,max=255"`
	Message *string `json:"message"`
}

func (r *UpdateTopicRequest) Sanitize() {
	r.TopicID = validation.CleanString(r.TopicID)
	r.Subject = validation.CleanOptional(r.Subject)
	r.Message = validation.CleanOptional(r.Message)
}

func (r *UpdateTopicRequest) Changes() TopicChanges {
	return TopicChanges{Subject: r.Subject, Message: r.Message}
}

func (c TopicChanges) Empty() bool {
	return c.Subject == nil && c.Message == nil
}

type CreateReplyRequest struct {
	ReplyID string `json:"reply_id" validate:"required,max=50"`
	TopicID string `json:"topic_id" validate:"required,max=50"`
	Text    string `json:"text" validate:"required"`
	Author  string `json:"author" validate:"required,max=255"`
}

func (r *CreateReplyRequest) Sanitize() {
	r.ReplyID = validation.CleanString(r.ReplyID)
	r.TopicID = validation.CleanString(r.TopicID)
	r.Text = validation.CleanString(r.Text)
	r.Author = validation.CleanString(r.Author)
}

type CreateWeekRequest struct {
	WeekID      string   `json:"week_id" validate:"required,max=50"`
	Title       string   `json:"title" validate:"required,max=255"`
	StartDate   string   `json:"start_date" validate:"required,isodate"`
	Description string   `json:"description" validate:"required"`
	Links       []string `json:"links" validate:"dive,safeurl"`
}

func (r *CreateWeekRequest) Sanitize() {
	r.WeekID = validation.CleanString(r.WeekID)
	r.Title = validation.CleanString(r.Title)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.Description = validation.CleanString(r.Description)
	r.Links = validation.CleanList(r.Links)
}

type UpdateWeekRequest struct {
	WeekID      string    `json:"week_id" validate:"required,max=50"`
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	StartDate   *string   `json:"start_date" validate:"omitempty,isodate"`
	Description *string   `json:"description"`
	Links       *[]string `json:"links" validate:"omitempty,dive,safeurl"`
}

func (r *UpdateWeekRequest) Sanitize() {
	r.WeekID = validation.CleanString(r.WeekID)
	r.Title = validation.CleanOptional(r.Title)
	r.StartDate = validation.TrimOptional(r.StartDate)
	r.Description = validation.CleanOptional(r.Description)
	if r.Links != nil {
		links := validation.CleanList(*r.Links)
		r.Links = &links
	}
}

func (r *UpdateWeekRequest) Changes() WeekChanges {
	return WeekChanges{Title: r.Title, StartDate: r.StartDate, Description: r.Description, Links: r.Links}
}

func (c WeekChanges) Empty() bool {
	return c.Title == nil && c.StartDate == nil && c.Description == nil && c.Links == nil
}

type CreateWeekCommentRequest struct {
	WeekID string `json:"week_id" validate:"required,max=50"`
	Author string `json:"author" validate:"required,max=255"`
	Text   string `json:"text" validate:"required"`
}

func (r *CreateWeekCommentRequest) Sanitize() {
	r.WeekID = validation.CleanString(r.WeekID)
	r.Author = validation.CleanString(r.Author)
	r.Text = validation.CleanString(r.Text)
}
