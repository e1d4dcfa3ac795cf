package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/repository"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service/integration"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	ListAssignments(ctx context.Context, opts models.ListOptions) ([]models.Assignment, error)
	UpdateAssignment(ctx context.Context, req *models.UpdateAssignmentRequest) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, req *models.CreateAssignmentCommentRequest) (*models.AssignmentComment, error)
	ListComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	events         eventEmitter
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		events:         eventEmitter{publisher: publisher, logger: logger},
		logger:         logger,
	}
}

func (s *assignmentService) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Files:       req.Files,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	id := strconv.FormatInt(assignment.ID, 10)
	s.logger.Info().
		Int64("assignment_id", assignment.ID).
		Str("due_date", assignment.DueDate).
		Msg("Assignment created")

	s.events.emit(ctx, models.EventAssignmentCreated, id, "")

	return assignment, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	if id <= 0 {
		return nil, MissingParam("id")
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	return assignment, nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, opts models.ListOptions) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, req *models.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	changes := req.Changes()
	if changes.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	assignment, err := s.assignmentRepo.Update(ctx, req.ID, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	s.logger.Info().
		Int64("assignment_id", assignment.ID).
		Msg("Assignment updated")

	return assignment, nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, id int64) error {
	if id <= 0 {
		return MissingParam("id")
	}

	deleted, err := s.assignmentRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if !deleted {
		return ErrAssignmentNotFound
	}

	s.logger.Info().
		Int64("assignment_id", id).
		Msg("Assignment deleted with comments")

	s.events.emit(ctx, models.EventAssignmentDeleted, strconv.FormatInt(id, 10), "")

	return nil
}

func (s *assignmentService) CreateComment(ctx context.Context, req *models.CreateAssignmentCommentRequest) (*models.AssignmentComment, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	comment := &models.AssignmentComment{
		AssignmentID: req.AssignmentID,
		Author:       req.Author,
		Text:         req.Text,
	}

	if err := s.assignmentRepo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info().
		Int64("comment_id", comment.ID).
		Int64("assignment_id", comment.AssignmentID).
		Msg("Assignment comment created")

	s.events.emit(ctx, models.EventCommentCreated,
		strconv.FormatInt(comment.ID, 10), strconv.FormatInt(comment.AssignmentID, 10))

	return comment, nil
}

func (s *assignmentService) ListComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error) {
	if assignmentID <= 0 {
		return nil, MissingParam("assignment_id")
	}

	comments, err := s.assignmentRepo.ListComments(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (s *assignmentService) DeleteComment(ctx context.Context, id int64) error {
	if id <= 0 {
		return MissingParam("id")
	}

	deleted, err := s.assignmentRepo.DeleteComment(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !deleted {
		return ErrCommentNotFound
	}

	return nil
}
