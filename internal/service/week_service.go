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

type WeekService interface {
	CreateWeek(ctx context.Context, req *models.CreateWeekRequest) (*models.Week, error)
	GetWeek(ctx context.Context, weekID string) (*models.Week, error)
	ListWeeks(ctx context.Context, opts models.ListOptions) ([]models.Week, error)
	UpdateWeek(ctx context.Context, req *models.UpdateWeekRequest) (*models.Week, error)
	DeleteWeek(ctx context.Context, weekID string) error

	CreateComment(ctx context.Context, req *models.CreateWeekCommentRequest) (*models.WeekComment, error)
	ListComments(ctx context.Context, weekID string) ([]models.WeekComment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type weekService struct {
	weekRepo repository.WeekRepository
	events   eventEmitter
	logger   zerolog.Logger
}

func NewWeekService(
	weekRepo repository.WeekRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) WeekService {
	return &weekService{
		weekRepo: weekRepo,
		events:   eventEmitter{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

func (s *weekService) CreateWeek(ctx context.Context, req *models.CreateWeekRequest) (*models.Week, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	week := &models.Week{
		WeekID:      req.WeekID,
		Title:       req.Title,
		StartDate:   req.StartDate,
		Description: req.Description,
		Links:       req.Links,
	}

	if err := s.weekRepo.Create(ctx, week); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWeekExists
		}
		return nil, fmt.Errorf("failed to create week: %w", err)
	}

	s.logger.Info().
		Str("week_id", week.WeekID).
		Str("start_date", week.StartDate).
		Msg("Week created")

	s.events.emit(ctx, models.EventWeekCreated, week.WeekID, "")

	return week, nil
}

func (s *weekService) GetWeek(ctx context.Context, weekID string) (*models.Week, error) {
	if weekID == "" {
		return nil, MissingParam("week_id")
	}

	week, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	if week == nil {
		return nil, ErrWeekNotFound
	}

	return week, nil
}

func (s *weekService) ListWeeks(ctx context.Context, opts models.ListOptions) ([]models.Week, error) {
	weeks, err := s.weekRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}

	return weeks, nil
}

func (s *weekService) UpdateWeek(ctx context.Context, req *models.UpdateWeekRequest) (*models.Week, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	changes := req.Changes()
	if changes.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	week, err := s.weekRepo.Update(ctx, req.WeekID, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update week: %w", err)
	}
	if week == nil {
		return nil, ErrWeekNotFound
	}

	s.logger.Info().
		Str("week_id", week.WeekID).
		Msg("Week updated")

	return week, nil
}

func (s *weekService) DeleteWeek(ctx context.Context, weekID string) error {
	if weekID == "" {
		return MissingParam("week_id")
	}

	deleted, err := s.weekRepo.Delete(ctx, weekID)
	if err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}
	if !deleted {
		return ErrWeekNotFound
	}

	s.logger.Info().
		Str("week_id", weekID).
		Msg("Week deleted with comments")

	s.events.emit(ctx, models.EventWeekDeleted, weekID, "")

	return nil
}

func (s *weekService) CreateComment(ctx context.Context, req *models.CreateWeekCommentRequest) (*models.WeekComment, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	comment := &models.WeekComment{
		WeekID: req.WeekID,
		Author: req.Author,
		Text:   req.Text,
	}

	if err := s.weekRepo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info().
		Int64("comment_id", comment.ID).
		Str("week_id", comment.WeekID).
		Msg("Week comment created")

	s.events.emit(ctx, models.EventCommentCreated, strconv.FormatInt(comment.ID, 10), comment.WeekID)

	return comment, nil
}

func (s *weekService) ListComments(ctx context.Context, weekID string) ([]models.WeekComment, error) {
	if weekID == "" {
		return nil, MissingParam("week_id")
	}

	comments, err := s.weekRepo.ListComments(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (s *weekService) DeleteComment(ctx context.Context, id int64) error {
	if id <= 0 {
		return MissingParam("id")
	}

	deleted, err := s.weekRepo.DeleteComment(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !deleted {
		return ErrCommentNotFound
	}

	return nil
}
