package repository

import (
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and its assignments in one transaction
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Count counts tasks matching the filter
	Count(filter TaskFilter) (int64, error)

	// Update saves a task's own columns and replaces its assignments
	Update(task *models.Task, assigneeIDs []uint64) error

	// SetCompleted persists the completion flag only
	SetCompleted(id uint64, completed bool) error

	// Delete soft deletes a task and removes its assignments
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks. Nil fields do not
// restrict the result.
type TaskFilter struct {
	ProjectID      *uint64
	DeadlineBefore *time.Time
	Priority       *models.TaskPriority
	Completed      *bool
	Pagination     utils.PaginationParams
	Preload        []string
}

// WorkerRepository defines the interface for worker data access
type WorkerRepository interface {
	// Create creates a new worker
	Create(worker *models.Worker) error

	// FindByID finds a worker by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Worker, error)

	// FindByUsername finds a worker by username
	FindByUsername(username string) (*models.Worker, error)

	// Search lists workers whose first or last name contains the filter's name
	Search(filter WorkerFilter) ([]models.Worker, int64, error)

	// Count counts all workers
	Count() (int64, error)

	// CountByProject counts workers in a project
	CountByProject(projectID uint64) (int64, error)

	// CountInProject counts how many of the given worker IDs belong to the project
	CountInProject(workerIDs []uint64, projectID uint64) (int64, error)

	// ListByProject lists the workers of a project
	ListByProject(projectID uint64) ([]models.Worker, error)

	// Update saves a worker's own columns and drops their assignments to
	// tasks outside their project
	Update(worker *models.Worker) error
}

// WorkerFilter holds search and pagination options for listing workers
type WorkerFilter struct {
	Name       string
	Pagination utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// List lists all projects by name
	List() ([]models.Project, error)

	// Rename changes a project's name
	Rename(id uint64, name string) error
}

// Label is a named classification row: a TaskType or a Position.
type Label interface {
	models.TaskType | models.Position
	LabelID() uint64
	LabelName() string
}

// LabelRepository defines data access for a label table
type LabelRepository[T Label] interface {
	// Create creates a new label
	Create(label *T) error

	// FindByID finds a label by ID
	FindByID(id uint64) (*T, error)

	// FindByName finds a label by exact name
	FindByName(name string) (*T, error)

	// List lists all labels by name
	List() ([]T, error)

	// Rename changes a label's name
	Rename(id uint64, name string) error

	// Delete deletes a label
	Delete(id uint64) error
}
