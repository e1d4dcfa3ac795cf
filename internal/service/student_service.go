package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/auth"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/repository"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/service/integration"
)

type StudentService interface {
	CreateStudent(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, studentID string) (*models.Student, error)
	ListStudents(ctx context.Context, opts models.ListOptions) ([]models.Student, error)
	UpdateStudent(ctx context.Context, req *models.UpdateStudentRequest) (*models.Student, error)
	ChangePassword(ctx context.Context, req *models.ChangePasswordRequest) error
	DeleteStudent(ctx context.Context, studentID string) error
}

type studentService struct {
	studentRepo repository.StudentRepository
	hasher      auth.PasswordHasher
	events      eventEmitter
	logger      zerolog.Logger
}

func NewStudentService(
	studentRepo repository.StudentRepository,
	hasher auth.PasswordHasher,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		hasher:      hasher,
		events:      eventEmitter{publisher: publisher, logger: logger},
		logger:      logger,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req *models.CreateStudentRequest) (*models.Student, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentID:    req.StudentID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrStudentExists
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info().
		Str("student_id", student.StudentID).
		Str("email", student.Email).
		Msg("Student created")

	s.events.emit(ctx, models.EventStudentCreated, student.StudentID, "")

	return student, nil
}

func (s *studentService) GetStudent(ctx context.Context, studentID string) (*models.Student, error) {
	if studentID == "" {
		return nil, MissingParam("student_id")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, opts models.ListOptions) ([]models.Student, error) {
	students, err := s.studentRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return students, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, req *models.UpdateStudentRequest) (*models.Student, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	changes := req.Changes()
	if changes.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	student, err := s.studentRepo.Update(ctx, req.StudentID, changes)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	s.logger.Info().
		Str("student_id", student.StudentID).
		Msg("Student updated")

	return student, nil
}

func (s *studentService) ChangePassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	if err := prepare(req); err != nil {
		return err
	}

	found, err := s.studentRepo.ChangePassword(ctx, req.StudentID, func(currentHash string) (string, error) {
		if err := s.hasher.Compare(currentHash, req.CurrentPassword); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return "", ErrIncorrectPassword
			}
			return "", err
		}
		return s.hashPassword(req.NewPassword)
	})
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		return fmt.Errorf("failed to change password: %w", err)
	}
	if !found {
		return ErrStudentNotFound
	}

	s.logger.Info().
		Str("student_id", req.StudentID).
		Msg("Student password changed")

	return nil
}

func (s *studentService) DeleteStudent(ctx context.Context, studentID string) error {
	if studentID == "" {
		return MissingParam("student_id")
	}

	deleted, err := s.studentRepo.Delete(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if !deleted {
		return ErrStudentNotFound
	}

	s.logger.Info().
		Str("student_id", studentID).
		Msg("Student deleted")

	s.events.emit(ctx, models.EventStudentDeleted, studentID, "")

	return nil
}

func (s *studentService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
