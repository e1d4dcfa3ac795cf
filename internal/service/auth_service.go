package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/auth"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// AdminCredentials is the single configured administrator account.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type authService struct {
	studentRepo repository.StudentRepository
	tokens      *auth.JWTManager
	hasher      auth.PasswordHasher
	admin       AdminCredentials
	// dummyHash is compared against when no account matches so that
	// unknown logins cost the same as wrong passwords.
	dummyHash string
	logger    zerolog.Logger
}

func NewAuthService(
	studentRepo repository.StudentRepository,
	tokens *auth.JWTManager,
	hasher auth.PasswordHasher,
	admin AdminCredentials,
	logger zerolog.Logger,
) (AuthService, error) {
	dummyHash, err := hasher.Hash("course-portal-unknown-account")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &authService{
		studentRepo: studentRepo,
		tokens:      tokens,
		hasher:      hasher,
		admin:       admin,
		dummyHash:   dummyHash,
		logger:      logger,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := prepare(req); err != nil {
		return nil, err
	}

	if s.admin.Username != "" && s.admin.PasswordHash != "" && req.Username == s.admin.Username {
		if err := s.hasher.Compare(s.admin.PasswordHash, req.Password); err != nil {
			return nil, s.rejectLogin(req.Username, err)
		}
		return s.issue(req.Username, auth.RoleAdmin)
	}

	student, err := s.studentRepo.GetCredentials(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}

	hash := s.dummyHash
	if student != nil {
		hash = student.PasswordHash
	}
	if err := s.hasher.Compare(hash, req.Password); err != nil || student == nil {
		return nil, s.rejectLogin(req.Username, err)
	}

	return s.issue(student.StudentID, auth.RoleStudent)
}

func (s *authService) issue(subject, role string) (*models.LoginResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(subject, role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().
		Str("subject", subject).
		Str("role", role).
		Msg("Login succeeded")

	return &models.LoginResponse{
		Token:     token,
		Role:      role,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (s *authService) rejectLogin(username string, err error) error {
	if err != nil && !errors.Is(err, auth.ErrPasswordMismatch) {
		s.logger.Error().Err(err).Msg("Password comparison failed")
	}

	s.logger.Warn().
		Str("username", username).
		Msg("Login rejected")

	return ErrInvalidCredentials
}
