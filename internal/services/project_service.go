package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"gorm.io/gorm"
)

// ProjectService provides project listing and the dashboard counts.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	workerRepo  repository.WorkerRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	workerRepo repository.WorkerRepository,
	taskRepo repository.TaskRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		workerRepo:  workerRepo,
		taskRepo:    taskRepo,
	}
}

// ListProjects returns every project.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject creates a project.
func (s *ProjectService) CreateProject(name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fieldError("name", ErrNameRequired)
	}
	project := &models.Project{Name: name}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// RenameProject changes a project's name.
func (s *ProjectService) RenameProject(id uint64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fieldError("name", ErrNameRequired)
	}
	if _, err := s.GetProject(id); err != nil {
		return err
	}
	if err := s.projectRepo.Rename(id, name); err != nil {
		return fmt.Errorf("failed to rename project: %w", err)
	}
	return nil
}

// DashboardStats are the counts on the index page.
type DashboardStats struct {
	WorkersAmount    int64 `json:"workers_amount"`
	TasksTotalAmount int64 `json:"tasks_total_amount"`
	TasksDone        int64 `json:"tasks_done"`
}

// Dashboard counts workers, tasks and completed tasks in the actor's project.
// A worker without a project sees zeros.
func (s *ProjectService) Dashboard(actor *models.Worker) (DashboardStats, error) {
	var stats DashboardStats
	if actor == nil || actor.ProjectID == nil {
		return stats, nil
	}
	projectID := *actor.ProjectID

	var err error
	if stats.WorkersAmount, err = s.workerRepo.CountByProject(projectID); err != nil {
		return stats, fmt.Errorf("failed to count workers: %w", err)
	}
	if stats.TasksTotalAmount, err = s.taskRepo.Count(repository.TaskFilter{ProjectID: &projectID}); err != nil {
		return stats, fmt.Errorf("failed to count tasks: %w", err)
	}
	done := true
	if stats.TasksDone, err = s.taskRepo.Count(repository.TaskFilter{ProjectID: &projectID, Completed: &done}); err != nil {
		return stats, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return stats, nil
}
