// Package authz holds the ownership rules checked before a task is changed.
package authz

import "github.com/yukikurage/taskboard/internal/models"

// Rule names a condition a worker must meet to act on a task.
type Rule int

const (
	// SameProject: the task belongs to the worker's project.
	SameProject Rule = iota + 1
	// Assignee: the worker is one of the task's assignees. The task's
	// assignments must be loaded.
	Assignee
)

func (r Rule) String() string {
	switch r {
	case SameProject:
		return "same_project"
	case Assignee:
		return "assignee"
	default:
		return "unknown"
	}
}

// Allowed reports whether worker satisfies rule for task.
func Allowed(worker *models.Worker, task *models.Task, rule Rule) bool {
	if worker == nil || task == nil {
		return false
	}

	switch rule {
	case SameProject:
		return worker.InProject(task.ProjectID)
	case Assignee:
		return task.HasAssignee(worker.ID)
	default:
		return false
	}
}

// IsStaff reports whether the worker may use the admin pages.
func IsStaff(worker *models.Worker) bool {
	return worker != nil && worker.IsStaff
}
