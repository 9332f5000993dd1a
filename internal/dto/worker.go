package dto

import "github.com/yukikurage/taskboard/internal/models"

// WorkerSummaryDTO is the short form of a worker used inside other responses
type WorkerSummaryDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// WorkerDTO represents a worker in API responses
type WorkerDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	IsStaff   bool        `json:"is_staff"`
	Position  *LabelDTO   `json:"position,omitempty"`
	Project   *ProjectDTO `json:"project,omitempty"`
	Tasks     []TaskDTO   `json:"tasks,omitempty"`
}

// WorkerListResponse represents a page of the worker search
type WorkerListResponse struct {
	Workers    []WorkerDTO `json:"workers"`
	Name       string      `json:"name"`
	NumWorkers int64       `json:"num_workers"`
	Pagination PageDTO     `json:"pagination"`
}

// ProjectListResponse lists projects and the acting worker's project
type ProjectListResponse struct {
	Projects     []ProjectDTO `json:"projects"`
	UsersProject *uint64      `json:"users_project"`
}

// ToWorkerSummaryDTO converts a Worker model to WorkerSummaryDTO
func ToWorkerSummaryDTO(worker models.Worker) WorkerSummaryDTO {
	return WorkerSummaryDTO{
		ID:       worker.ID,
		Username: worker.Username,
		FullName: worker.FullName(),
	}
}

// ToWorkerDTO converts a Worker model to WorkerDTO. Assigned tasks are
// included when the assignments were loaded with their tasks.
func ToWorkerDTO(worker models.Worker) WorkerDTO {
	dto := WorkerDTO{
		ID:        worker.ID,
		Username:  worker.Username,
		FirstName: worker.FirstName,
		LastName:  worker.LastName,
		Email:     worker.Email,
		IsStaff:   worker.IsStaff,
	}
	if worker.Position != nil {
		dto.Position = &LabelDTO{ID: worker.Position.ID, Name: worker.Position.Name}
	}
	if worker.Project != nil {
		project := ToProjectDTO(*worker.Project)
		dto.Project = &project
	}
	for _, assignment := range worker.Assignments {
		if assignment.Task.ID != 0 {
			dto.Tasks = append(dto.Tasks, ToTaskDTO(assignment.Task))
		}
	}
	return dto
}

// ToWorkerDTOs converts a slice of workers
func ToWorkerDTOs(workers []models.Worker) []WorkerDTO {
	dtos := make([]WorkerDTO, len(workers))
	for i, worker := range workers {
		dtos[i] = ToWorkerDTO(worker)
	}
	return dtos
}
