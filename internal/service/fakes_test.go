package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/repository"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/storage"
)

var errDB = errors.New("connection reset")

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *models.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeStudentRepo struct {
	students map[string]*models.Student
	err      error
	creates  int
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[string]*models.Student{}}
}

func (r *fakeStudentRepo) emailTaken(email, except string) bool {
	for id, s := range r.students {
		if id != except && s.Email == email {
			return true
		}
	}
	return false
}

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.creates++
	if r.err != nil {
		return r.err
	}
	if _, ok := r.students[student.StudentID]; ok || r.emailTaken(student.Email, "") {
		return repository.ErrDuplicate
	}
	stored := *student
	r.students[student.StudentID] = &stored
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, studentID string) (*models.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.students[studentID]
	if !ok {
		return nil, nil
	}
	out := *s
	out.PasswordHash = ""
	return &out, nil
}

func (r *fakeStudentRepo) GetCredentials(_ context.Context, login string) (*models.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	if s, ok := r.students[login]; ok {
		out := *s
		return &out, nil
	}
	for _, s := range r.students {
		if s.Email == login {
			out := *s
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) List(_ context.Context, _ models.ListOptions) ([]models.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Student{}
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, studentID string, changes models.StudentChanges) (*models.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.students[studentID]
	if !ok {
		return nil, nil
	}
	if changes.Email != nil && r.emailTaken(*changes.Email, studentID) {
		return nil, repository.ErrDuplicate
	}
	if changes.Name != nil {
		s.Name = *changes.Name
	}
	if changes.Email != nil {
		s.Email = *changes.Email
	}
	out := *s
	return &out, nil
}

func (r *fakeStudentRepo) ChangePassword(_ context.Context, studentID string, change func(string) (string, error)) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	s, ok := r.students[studentID]
	if !ok {
		return false, nil
	}
	hash, err := change(s.PasswordHash)
	if err != nil {
		return true, err
	}
	s.PasswordHash = hash
	return true, nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, studentID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.students[studentID]; !ok {
		return false, nil
	}
	delete(r.students, studentID)
	return true, nil
}

type fakeAssignmentRepo struct {
	assignments map[int64]*models.Assignment
	comments    map[int64]*models.AssignmentComment
	nextID      int64
	err         error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments: map[int64]*models.Assignment{},
		comments:    map[int64]*models.AssignmentComment{},
	}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *models.Assignment) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	a.ID = r.nextID
	stored := *a
	r.assignments[a.ID] = &stored
	return nil
}

func (r *fakeAssignmentRepo) GetByID(_ context.Context, id int64) (*models.Assignment, error) {
	if a, ok := r.assignments[id]; ok {
		out := *a
		return &out, r.err
	}
	return nil, r.err
}

func (r *fakeAssignmentRepo) List(_ context.Context, _ models.ListOptions) ([]models.Assignment, error) {
	out := []models.Assignment{}
	for _, a := range r.assignments {
		out = append(out, *a)
	}
	return out, r.err
}

func (r *fakeAssignmentRepo) Update(_ context.Context, id int64, changes models.AssignmentChanges) (*models.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, r.err
	}
	if changes.Title != nil {
		a.Title = *changes.Title
	}
	if changes.Description != nil {
		a.Description = *changes.Description
	}
	if changes.DueDate != nil {
		a.DueDate = *changes.DueDate
	}
	if changes.Files != nil {
		a.Files = *changes.Files
	}
	out := *a
	return &out, r.err
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.assignments[id]; !ok {
		return false, nil
	}
	for cid, c := range r.comments {
		if c.AssignmentID == id {
			delete(r.comments, cid)
		}
	}
	delete(r.assignments, id)
	return true, nil
}

func (r *fakeAssignmentRepo) CreateComment(_ context.Context, c *models.AssignmentComment) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.assignments[c.AssignmentID]; !ok {
		return repository.ErrForeignKey
	}
	r.nextID++
	c.ID = r.nextID
	stored := *c
	r.comments[c.ID] = &stored
	return nil
}

func (r *fakeAssignmentRepo) ListComments(_ context.Context, assignmentID int64) ([]models.AssignmentComment, error) {
	out := []models.AssignmentComment{}
	for _, c := range r.comments {
		if c.AssignmentID == assignmentID {
			out = append(out, *c)
		}
	}
	return out, r.err
}

func (r *fakeAssignmentRepo) DeleteComment(_ context.Context, id int64) (bool, error) {
	if _, ok := r.comments[id]; !ok {
		return false, r.err
	}
	delete(r.comments, id)
	return true, r.err
}

type fakeTopicRepo struct {
	topics  map[string]*models.Topic
	replies map[string]*models.Reply
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: map[string]*models.Topic{}, replies: map[string]*models.Reply{}}
}

func (r *fakeTopicRepo) Create(_ context.Context, t *models.Topic) error {
	if _, ok := r.topics[t.TopicID]; ok {
		return repository.ErrDuplicate
	}
	stored := *t
	r.topics[t.TopicID] = &stored
	return nil
}

func (r *fakeTopicRepo) GetByID(_ context.Context, topicID string) (*models.Topic, error) {
	if t, ok := r.topics[topicID]; ok {
		out := *t
		return &out, nil
	}
	return nil, nil
}

func (r *fakeTopicRepo) List(_ context.Context, _ models.ListOptions) ([]models.Topic, error) {
	out := []models.Topic{}
	for _, t := range r.topics {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTopicRepo) Update(_ context.Context, topicID string, changes models.TopicChanges) (*models.Topic, error) {
	t, ok := r.topics[topicID]
	if !ok {
		return nil, nil
	}
	if changes.Subject != nil {
		t.Subject = *changes.Subject
	}
	if changes.Message != nil {
		t.Message = *changes.Message
	}
	out := *t
	return &out, nil
}

func (r *fakeTopicRepo) Delete(_ context.Context, topicID string) (bool, error) {
	if _, ok := r.topics[topicID]; !ok {
		return false, nil
	}
	for id, reply := range r.replies {
		if reply.TopicID == topicID {
			delete(r.replies, id)
		}
	}
	delete(r.topics, topicID)
	return true, nil
}

func (r *fakeTopicRepo) CreateReply(_ context.Context, reply *models.Reply) error {
	if _, ok := r.topics[reply.TopicID]; !ok {
		return repository.ErrForeignKey
	}
	if _, ok := r.replies[reply.ReplyID]; ok {
		return repository.ErrDuplicate
	}
	stored := *reply
	r.replies[reply.ReplyID] = &stored
	return nil
}

func (r *fakeTopicRepo) ListReplies(_ context.Context, topicID string) ([]models.Reply, error) {
	out := []models.Reply{}
	for _, reply := range r.replies {
		if reply.TopicID == topicID {
			out = append(out, *reply)
		}
	}
	return out, nil
}

func (r *fakeTopicRepo) DeleteReply(_ context.Context, replyID string) (bool, error) {
	if _, ok := r.replies[replyID]; !ok {
		return false, nil
	}
	delete(r.replies, replyID)
	return true, nil
}

type fakeWeekRepo struct {
	weeks    map[string]*models.Week
	comments map[int64]*models.WeekComment
	nextID   int64
}

func newFakeWeekRepo() *fakeWeekRepo {
	return &fakeWeekRepo{weeks: map[string]*models.Week{}, comments: map[int64]*models.WeekComment{}}
}

func (r *fakeWeekRepo) Create(_ context.Context, w *models.Week) error {
	if _, ok := r.weeks[w.WeekID]; ok {
		return repository.ErrDuplicate
	}
	stored := *w
	r.weeks[w.WeekID] = &stored
	return nil
}

func (r *fakeWeekRepo) GetByID(_ context.Context, weekID string) (*models.Week, error) {
	if w, ok := r.weeks[weekID]; ok {
		out := *w
		return &out, nil
	}
	return nil, nil
}

func (r *fakeWeekRepo) List(_ context.Context, _ models.ListOptions) ([]models.Week, error) {
	out := []models.Week{}
	for _, w := range r.weeks {
		out = append(out, *w)
	}
	return out, nil
}

func (r *fakeWeekRepo) Update(_ context.Context, weekID string, changes models.WeekChanges) (*models.Week, error) {
	w, ok := r.weeks[weekID]
	if !ok {
		return nil, nil
	}
	if changes.Title != nil {
		w.Title = *changes.Title
	}
	if changes.StartDate != nil {
		w.StartDate = *changes.StartDate
	}
	if changes.Description != nil {
		w.Description = *changes.Description
	}
	if changes.Links != nil {
		w.Links = *changes.Links
	}
	out := *w
	return &out, nil
}

func (r *fakeWeekRepo) Delete(_ context.Context, weekID string) (bool, error) {
	if _, ok := r.weeks[weekID]; !ok {
		return false, nil
	}
	for id, c := range r.comments {
		if c.WeekID == weekID {
			delete(r.comments, id)
		}
	}
	delete(r.weeks, weekID)
	return true, nil
}

func (r *fakeWeekRepo) CreateComment(_ context.Context, c *models.WeekComment) error {
	if _, ok := r.weeks[c.WeekID]; !ok {
		return repository.ErrForeignKey
	}
	r.nextID++
	c.ID = r.nextID
	stored := *c
	r.comments[c.ID] = &stored
	return nil
}

func (r *fakeWeekRepo) ListComments(_ context.Context, weekID string) ([]models.WeekComment, error) {
	out := []models.WeekComment{}
	for _, c := range r.comments {
		if c.WeekID == weekID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeWeekRepo) DeleteComment(_ context.Context, id int64) (bool, error) {
	if _, ok := r.comments[id]; !ok {
		return false, nil
	}
	delete(r.comments, id)
	return true, nil
}

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) Upload(_ context.Context, key string, data io.Reader, _ int64, contentType string) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memoryStorage) Download(_ context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, nil, storage.ErrObjectNotFound
	}
	info := &storage.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: m.types[key]}
	return io.NopCloser(bytes.NewReader(b)), info, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}
