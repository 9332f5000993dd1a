package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
	"gorm.io/gorm"
)

// WorkerService handles worker listing and profile edits.
type WorkerService struct {
	workerRepo   repository.WorkerRepository
	projectRepo  repository.ProjectRepository
	positionRepo repository.LabelRepository[models.Position]
	refs         *referenceChecker
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(
	workerRepo repository.WorkerRepository,
	projectRepo repository.ProjectRepository,
	positionRepo repository.LabelRepository[models.Position],
) *WorkerService {
	return &WorkerService{
		workerRepo:   workerRepo,
		projectRepo:  projectRepo,
		positionRepo: positionRepo,
		refs:         &referenceChecker{projectRepo: projectRepo, positionRepo: positionRepo},
	}
}

// ListWorkersInput represents the worker search form.
type ListWorkersInput struct {
	Name     string
	Page     int
	PageSize int
}

// WorkerList is one page of the worker search.
type WorkerList struct {
	Workers    []models.Worker
	Page       utils.Page
	Name       string
	NumWorkers int64
}

// ListWorkers searches workers by first or last name. NumWorkers counts every
// worker, not only the matches.
func (s *WorkerService) ListWorkers(input ListWorkersInput) (*WorkerList, error) {
	size := input.PageSize
	if size <= 0 {
		size = constants.WorkerPageSize
	}

	name := strings.TrimSpace(input.Name)
	workers, page, err := utils.Paginate(input.Page, size, func(p utils.PaginationParams) ([]models.Worker, int64, error) {
		return s.workerRepo.Search(repository.WorkerFilter{Name: name, Pagination: p})
	})
	if err != nil {
		if errors.Is(err, utils.ErrInvalidPage) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	numWorkers, err := s.workerRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count workers: %w", err)
	}

	return &WorkerList{
		Workers:    workers,
		Page:       page,
		Name:       name,
		NumWorkers: numWorkers,
	}, nil
}

// GetWorker returns a worker with position, project and assigned tasks.
func (s *WorkerService) GetWorker(id uint64) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(id, "Position", "Project", "Assignments", "Assignments.Task", "Assignments.Task.Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}
	return worker, nil
}

// ProfileInput represents the self-service profile form.
type ProfileInput struct {
	FirstName  string
	LastName   string
	Email      string
	PositionID uint64
	ProjectID  uint64
}

// UpdateProfile edits the acting worker's own profile.
func (s *WorkerService) UpdateProfile(actor *models.Worker, input ProfileInput) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	positionID, err := s.refs.position(input.PositionID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.refs.project(input.ProjectID)
	if err != nil {
		return nil, err
	}

	worker.FirstName = strings.TrimSpace(input.FirstName)
	worker.LastName = strings.TrimSpace(input.LastName)
	worker.Email = strings.TrimSpace(input.Email)
	worker.PositionID = positionID
	worker.ProjectID = projectID

	if err := s.workerRepo.Update(worker); err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	return worker, nil
}

// AdminWorkerInput represents the staff worker edit form.
type AdminWorkerInput struct {
	Username string
	IsStaff  bool
	ProfileInput
}

// AdminUpdateWorker edits any worker, including username and staff flag.
func (s *WorkerService) AdminUpdateWorker(id uint64, input AdminWorkerInput) (*models.Worker, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fieldError("username", ErrUsernameRequired)
	}

	worker, err := s.workerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	if username != worker.Username {
		if _, err := s.workerRepo.FindByUsername(username); err == nil {
			return nil, fieldError("username", ErrUsernameTaken)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	positionID, err := s.refs.position(input.PositionID)
	if err != nil {
		return nil, err
	}
	projectID, err := s.refs.project(input.ProjectID)
	if err != nil {
		return nil, err
	}

	worker.Username = username
	worker.IsStaff = input.IsStaff
	worker.FirstName = strings.TrimSpace(input.FirstName)
	worker.LastName = strings.TrimSpace(input.LastName)
	worker.Email = strings.TrimSpace(input.Email)
	worker.PositionID = positionID
	worker.ProjectID = projectID

	if err := s.workerRepo.Update(worker); err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	return worker, nil
}

// Positions lists positions for the worker forms.
func (s *WorkerService) Positions() ([]models.Position, error) {
	positions, err := s.positionRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// Projects lists projects for the worker forms.
func (s *WorkerService) Projects() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}
