package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskboard/internal/authz"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
	"gorm.io/gorm"
)

// taskDetailPreloads are the relations shown on the task detail page.
var taskDetailPreloads = []string{"TaskType", "Project", "Assignments", "Assignments.Worker"}

// Clock returns the current time.
type Clock func() time.Time

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	workerRepo   repository.WorkerRepository
	projectRepo  repository.ProjectRepository
	taskTypeRepo repository.LabelRepository[models.TaskType]
	drafter      TaskDrafter
	now          Clock
}

// NewTaskService creates a new TaskService. drafter may be nil.
func NewTaskService(
	taskRepo repository.TaskRepository,
	workerRepo repository.WorkerRepository,
	projectRepo repository.ProjectRepository,
	taskTypeRepo repository.LabelRepository[models.TaskType],
	drafter TaskDrafter,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		workerRepo:   workerRepo,
		projectRepo:  projectRepo,
		taskTypeRepo: taskTypeRepo,
		drafter:      drafter,
		now:          time.Now,
	}
}

// SetClock replaces the clock used to decide what "today" is.
func (s *TaskService) SetClock(now Clock) {
	s.now = now
}

// Today returns the current date at UTC midnight.
func (s *TaskService) Today() time.Time {
	return models.Date(s.now().UTC())
}

// TaskFilters are the flags of the task list.
type TaskFilters struct {
	PastDeadline bool
	Urgent       bool
	Done         bool
}

// ParseTaskFilters reads the repeated "filters" query values. Unknown values
// are ignored.
func ParseTaskFilters(values []string) TaskFilters {
	var f TaskFilters
	for _, v := range values {
		switch v {
		case constants.FilterPastDeadline:
			f.PastDeadline = true
		case constants.FilterUrgent:
			f.Urgent = true
		case constants.FilterDone:
			f.Done = true
		}
	}
	return f
}

// Values returns the filters in query-string form.
func (f TaskFilters) Values() []string {
	var values []string
	if f.PastDeadline {
		values = append(values, constants.FilterPastDeadline)
	}
	if f.Urgent {
		values = append(values, constants.FilterUrgent)
	}
	if f.Done {
		values = append(values, constants.FilterDone)
	}
	return values
}

// ListTasksInput represents filters for listing a project's tasks
type ListTasksInput struct {
	ProjectID uint64
	Filters   TaskFilters
	Page      int
}

// TaskList is one page of a project's task list
type TaskList struct {
	Project *models.Project
	Tasks   []models.Task
	Page    utils.Page
	Filters TaskFilters
}

// ListProjectTasks returns a page of the project's tasks narrowed by the
// filters. Completed and open tasks are never listed together.
func (s *TaskService) ListProjectTasks(input ListTasksInput) (*TaskList, error) {
	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	completed := input.Filters.Done
	filter := repository.TaskFilter{
		ProjectID: &project.ID,
		Completed: &completed,
		Preload:   []string{"TaskType", "Assignments", "Assignments.Worker"},
	}
	if input.Filters.PastDeadline {
		today := s.Today()
		filter.DeadlineBefore = &today
	}
	if input.Filters.Urgent {
		urgent := models.PriorityUrgent
		filter.Priority = &urgent
	}

	tasks, page, err := utils.Paginate(input.Page, constants.TaskPageSize, func(p utils.PaginationParams) ([]models.Task, int64, error) {
		filter.Pagination = p
		return s.taskRepo.List(filter)
	})
	if err != nil {
		if errors.Is(err, utils.ErrInvalidPage) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &TaskList{
		Project: project,
		Tasks:   tasks,
		Page:    page,
		Filters: input.Filters,
	}, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// TaskInput represents the fields of the task form
type TaskInput struct {
	Name        string
	Description string
	Deadline    time.Time
	Priority    models.TaskPriority
	TaskTypeID  uint64
	AssigneeIDs []uint64
}

// CreateTask creates a task in the actor's project
func (s *TaskService) CreateTask(input TaskInput, actor *models.Worker) (*models.Task, error) {
	if actor == nil || actor.ProjectID == nil {
		return nil, ErrNoProject
	}

	task := &models.Task{ProjectID: *actor.ProjectID}
	assigneeIDs, err := s.applyInput(task, input)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask updates a task of the actor's project
func (s *TaskService) UpdateTask(task *models.Task, input TaskInput, actor *models.Worker) (*models.Task, error) {
	if !authz.Allowed(actor, task, authz.SameProject) {
		return nil, ErrTaskPermissionDenied
	}

	assigneeIDs, err := s.applyInput(task, input)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask deletes a task of the actor's project
func (s *TaskService) DeleteTask(task *models.Task, actor *models.Worker) error {
	if !authz.Allowed(actor, task, authz.SameProject) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ToggleCompletion flips the completion flag of a task the actor is assigned to
func (s *TaskService) ToggleCompletion(taskID uint64, actor *models.Worker) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.Allowed(actor, task, authz.Assignee) {
		return nil, ErrTaskPermissionDenied
	}

	task.IsCompleted = !task.IsCompleted
	if err := s.taskRepo.SetCompleted(task.ID, task.IsCompleted); err != nil {
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}

	return task, nil
}

// AssigneeChoices lists the workers a task of the project can be assigned to
func (s *TaskService) AssigneeChoices(projectID *uint64) ([]models.Worker, error) {
	if projectID == nil {
		return []models.Worker{}, nil
	}
	workers, err := s.workerRepo.ListByProject(*projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project workers: %w", err)
	}
	return workers, nil
}

// TaskTypes lists the task types for the task form
func (s *TaskService) TaskTypes() ([]models.TaskType, error) {
	types, err := s.taskTypeRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return types, nil
}

// applyInput validates the form input and copies it onto task. It returns the
// de-duplicated assignee IDs.
func (s *TaskService) applyInput(task *models.Task, input TaskInput) ([]uint64, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", ErrNameRequired)
	}
	if input.Deadline.IsZero() {
		return nil, fieldError("deadline", ErrDeadlineRequired)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fieldError("priority", ErrInvalidPriority)
	}

	if _, err := s.taskTypeRepo.FindByID(input.TaskTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("task_type_id", ErrTaskTypeNotFound)
		}
		return nil, fmt.Errorf("failed to find task type: %w", err)
	}

	assigneeIDs := uniqueUint64(input.AssigneeIDs)
	if len(assigneeIDs) > 0 {
		count, err := s.workerRepo.CountInProject(assigneeIDs, task.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify assignees: %w", err)
		}
		if int(count) != len(assigneeIDs) {
			return nil, fieldError("assignees", ErrInvalidTaskAssignee)
		}
	}

	task.Name = name
	task.Description = strings.TrimSpace(input.Description)
	task.Deadline = models.Date(input.Deadline)
	task.Priority = priority
	task.TaskTypeID = input.TaskTypeID

	return assigneeIDs, nil
}

// DraftTasksInput represents input for AI task drafting
type DraftTasksInput struct {
	Text string
}

// DraftingEnabled reports whether a drafter is configured
func (s *TaskService) DraftingEnabled() bool {
	return s.drafter != nil
}

// DraftTasks uses the drafter to turn free text into task suggestions
func (s *TaskService) DraftTasks(ctx context.Context, input DraftTasksInput) ([]GeneratedTask, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.drafter.DraftTasks(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	today := s.Today()
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Name) == "" {
			continue
		}

		if aiTask.Deadline != nil && aiTask.Deadline.Before(today) {
			aiTask.Deadline = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
