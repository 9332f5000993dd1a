package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrUsernameTaken        = errors.New("a worker with that username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrPasswordMismatch     = errors.New("the two password fields didn't match")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and authentication.
type AuthService struct {
	workerRepo repository.WorkerRepository
	refs       *referenceChecker
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	workerRepo repository.WorkerRepository,
	projectRepo repository.ProjectRepository,
	positionRepo repository.LabelRepository[models.Position],
) *AuthService {
	return &AuthService{
		workerRepo: workerRepo,
		refs:       &referenceChecker{projectRepo: projectRepo, positionRepo: positionRepo},
	}
}

// SignupInput represents the registration form.
type SignupInput struct {
	Username        string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Email           string
	PositionID      uint64
	ProjectID       uint64
	IsStaff         bool
}

// Signup registers a new worker.
func (s *AuthService) Signup(input SignupInput) (*models.Worker, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fieldError("username", ErrUsernameRequired)
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, fieldError("password", ErrPasswordTooShort)
	}
	if input.Password != input.PasswordConfirm {
		return nil, fieldError("password_confirm", ErrPasswordMismatch)
	}

	if _, err := s.workerRepo.FindByUsername(username); err == nil {
		return nil, fieldError("username", ErrUsernameTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	positionID, err := s.refs.position(input.PositionID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.refs.project(input.ProjectID)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	worker := &models.Worker{
		Username:     username,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		IsStaff:      input.IsStaff,
		PositionID:   positionID,
		ProjectID:    projectID,
	}

	if err := s.workerRepo.Create(worker); err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	return worker, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated worker.
func (s *AuthService) Login(input LoginInput) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return worker, nil
}

// GetWorker retrieves a worker by ID.
func (s *AuthService) GetWorker(id uint64) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	return worker, nil
}

// referenceChecker resolves optional position and project form values.
type referenceChecker struct {
	projectRepo  repository.ProjectRepository
	positionRepo repository.LabelRepository[models.Position]
}

// position returns nil for 0 and a field error for an unknown id.
func (c *referenceChecker) position(id uint64) (*uint64, error) {
	if id == 0 {
		return nil, nil
	}
	if _, err := c.positionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("position_id", ErrPositionNotFound)
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return &id, nil
}

// project returns nil for 0 and a field error for an unknown id.
func (c *referenceChecker) project(id uint64) (*uint64, error) {
	if id == 0 {
		return nil, nil
	}
	if _, err := c.projectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("project_id", ErrInvalidProject)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &id, nil
}
