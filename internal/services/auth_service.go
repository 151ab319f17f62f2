package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/SAP-F-2025/attendance-service/internal/auth"
	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// ===== SERVICE IMPLEMENTATION =====

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	events    *notificationEventService
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, events *notificationEventService, logger *slog.Logger, v *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		events:    events,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// Fast path; the unique index on email is the real guard.
	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:             uuid.New().String(),
		FullName:       req.FullName,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Role:           req.Role,
		Department:     req.Department,
		StudentNumber:  req.StudentNumber,
		LecturerNumber: req.LecturerNumber,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.events.PublishUserRegistered(ctx, user)

	return s.issueFor(user)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	loginAt := s.now()
	if err := s.repo.User().UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		// A failed timestamp write must not block the login.
		s.logger.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &loginAt

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return s.issueFor(user)
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) issueFor(user *models.User) (*AuthResponse, error) {
	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      user,
	}, nil
}
