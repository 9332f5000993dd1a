package dto

import (
	"time"

	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
)

// LabelDTO represents a task type or position in API responses
type LabelDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Deadline    string              `json:"deadline"`
	Priority    models.TaskPriority `json:"priority"`
	IsCompleted bool                `json:"is_completed"`
	ProjectID   uint64              `json:"project_id"`
	TaskType    *LabelDTO           `json:"task_type,omitempty"`
	Project     *ProjectDTO         `json:"project,omitempty"`
	Assignees   []WorkerSummaryDTO  `json:"assignees"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// PageDTO describes the current page of a list
type PageDTO struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	Total      int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// TaskListResponse represents a page of a project's tasks
type TaskListResponse struct {
	Project    ProjectDTO `json:"project"`
	Filters    []string   `json:"filters"`
	Tasks      []TaskDTO  `json:"tasks"`
	Pagination PageDTO    `json:"pagination"`
}

// TaskDetailResponse represents a task with the referring page
type TaskDetailResponse struct {
	Task        TaskDTO `json:"task"`
	PreviousURL string  `json:"previous_url"`
}

// Conversion functions

// ToPageDTO converts a utils.Page to PageDTO
func ToPageDTO(page utils.Page) PageDTO {
	return PageDTO{
		Number:     page.Number,
		Size:       page.Size,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{ID: project.ID, Name: project.Name}
}

// ToTaskDTO converts a Task model to TaskDTO. Relations are included when loaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Deadline:    task.Deadline.Format(constants.DateLayout),
		Priority:    task.Priority,
		IsCompleted: task.IsCompleted,
		ProjectID:   task.ProjectID,
		Assignees:   make([]WorkerSummaryDTO, 0, len(task.Assignments)),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.TaskType.ID != 0 {
		dto.TaskType = &LabelDTO{ID: task.TaskType.ID, Name: task.TaskType.Name}
	}
	if task.Project.ID != 0 {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}
	for _, assignment := range task.Assignments {
		if assignment.Worker.ID != 0 {
			dto.Assignees = append(dto.Assignees, ToWorkerSummaryDTO(assignment.Worker))
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
