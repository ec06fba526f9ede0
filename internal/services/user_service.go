package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Register creates an account. Passwords are stored as bcrypt hashes; the
// plaintext never leaves this function. Only an admin actor may grant a role
// other than member.
func (s *userService) Register(ctx context.Context, req *RegisterUserRequest, actor *models.User) (*models.User, error) {
	s.logger.Info("Registering user", "username", req.Username)

	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, NewConflictError(ErrUsernameTaken, req.Username)
	}

	taken, err = s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, NewConflictError(ErrEmailTaken, req.Email)
	}

	role := models.RoleMember
	if req.Role == models.RoleAdmin {
		if actor == nil || !actor.IsAdmin() {
			role = models.RoleMember
		} else {
			role = models.RoleAdmin
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Role:     role,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ErrUsernameTaken, req.Username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	return user, nil
}

// Authenticate verifies credentials. Lookup failure and hash mismatch both
// return ErrInvalidCredentials so callers cannot enumerate usernames.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserListResponse{Users: users, Total: total}, nil
}

func (s *userService) UpdateRole(ctx context.Context, id uint, role models.UserRole, actor *models.User) error {
	if actor == nil || !actor.IsAdmin() {
		actorID := uint(0)
		if actor != nil {
			actorID = actor.ID
		}
		return NewPermissionError(actorID, id, "user", "update_role", "admin role required")
	}

	if role != models.RoleAdmin && role != models.RoleMember {
		return ErrValidationFailed
	}

	if err := s.repo.User().UpdateRole(ctx, id, role); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user role: %w", err)
	}

	s.logger.Info("User role updated", "user_id", id, "role", role, "actor_id", actor.ID)

	return nil
}

func (s *userService) Delete(ctx context.Context, id uint, actor *models.User) error {
	if actor == nil || !actor.IsAdmin() {
		actorID := uint(0)
		if actor != nil {
			actorID = actor.ID
		}
		return NewPermissionError(actorID, id, "user", "delete", "admin role required")
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", "user_id", id, "actor_id", actor.ID)

	return nil
}
