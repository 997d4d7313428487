package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/hellowhq67/pte-practice-service/internal/errors"
	"github.com/hellowhq67/pte-practice-service/internal/models"
	"github.com/hellowhq67/pte-practice-service/internal/repositories"
)

// UserService manages practice profiles. Identity comes from the upstream
// auth layer; this service only stores the profile keyed by that external ID.
type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type CreateUserRequest struct {
	ID          string     `json:"id" validate:"required,max=255"`
	FullName    string     `json:"full_name" validate:"required,min=1,max=100"`
	Email       string     `json:"email" validate:"required,email"`
	TargetScore *int       `json:"target_score" validate:"omitempty,target_score"`
	ExamDate    *time.Time `json:"exam_date"`
}

type UpdateUserRequest struct {
	FullName    *string    `json:"full_name" validate:"omitempty,min=1,max=100"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	TargetScore *int       `json:"target_score" validate:"omitempty,target_score"`
	ExamDate    *time.Time `json:"exam_date"`
	IsActive    *bool      `json:"is_active"`
}

type userService struct {
	users     repositories.UserRepository
	logger    *slog.Logger
	validator *validator.Validate
}

func NewUserService(
	users repositories.UserRepository,
	logger *slog.Logger,
	validate *validator.Validate,
) UserService {
	return &userService{
		users:     users,
		logger:    logger,
		validator: validate,
	}
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ToValidationErrors(err)
	}

	exists, err := s.users.ExistsByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, ErrUserDuplicate
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email %s is taken", ErrUserDuplicate, req.Email)
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		ID:          req.ID,
		FullName:    req.FullName,
		Email:       req.Email,
		TargetScore: req.TargetScore,
		ExamDate:    req.ExamDate,
		IsActive:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", "user_id", user.ID)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.ToValidationErrors(err)
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *req.Email); err == nil {
			return nil, fmt.Errorf("%w: email %s is taken", ErrUserDuplicate, *req.Email)
		} else if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *req.Email
	}
	if req.TargetScore != nil {
		user.TargetScore = req.TargetScore
	}
	if req.ExamDate != nil {
		user.ExamDate = req.ExamDate
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", id)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("User deleted", "user_id", id)
	return nil
}
