package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
	"gorm.io/gorm"
)

// AdminService backs the staff-only admin pages. Callers must have checked
// that the acting worker is staff.
type AdminService struct {
	taskRepo   repository.TaskRepository
	workerRepo repository.WorkerRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(taskRepo repository.TaskRepository, workerRepo repository.WorkerRepository) *AdminService {
	return &AdminService{taskRepo: taskRepo, workerRepo: workerRepo}
}

// ListTasks pages through every task of every project.
func (s *AdminService) ListTasks(page int) ([]models.Task, utils.Page, error) {
	tasks, p, err := utils.Paginate(page, constants.AdminPageSize, func(params utils.PaginationParams) ([]models.Task, int64, error) {
		return s.taskRepo.List(repository.TaskFilter{
			Pagination: params,
			Preload:    []string{"TaskType", "Project"},
		})
	})
	if err != nil && !errors.Is(err, utils.ErrInvalidPage) {
		return nil, p, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, p, err
}

// ListWorkers pages through every worker with position and project.
func (s *AdminService) ListWorkers(page int) ([]models.Worker, utils.Page, error) {
	workers, p, err := utils.Paginate(page, constants.AdminPageSize, func(params utils.PaginationParams) ([]models.Worker, int64, error) {
		return s.workerRepo.Search(repository.WorkerFilter{Pagination: params})
	})
	if err != nil && !errors.Is(err, utils.ErrInvalidPage) {
		return nil, p, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, p, err
}

// DeleteTask deletes any task.
func (s *AdminService) DeleteTask(id uint64) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
