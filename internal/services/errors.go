package services

import "errors"

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrProjectNotFound        = errors.New("project not found")
	ErrWorkerNotFound         = errors.New("worker not found")
	ErrLabelNotFound          = errors.New("label not found")
	ErrNoProject              = errors.New("you must belong to a project to create tasks")
	ErrTaskPermissionDenied   = errors.New("worker does not have permission to modify this task")
	ErrNameRequired           = errors.New("this field is required")
	ErrDeadlineRequired       = errors.New("deadline is required")
	ErrInvalidPriority        = errors.New("select a valid priority")
	ErrTaskTypeNotFound       = errors.New("select a valid task type")
	ErrPositionNotFound       = errors.New("select a valid position")
	ErrInvalidProject         = errors.New("select a valid project")
	ErrInvalidTaskAssignee    = errors.New("one or more workers are not members of the task's project")
	ErrLabelTaken             = errors.New("a record with this name already exists")
	ErrLabelInUse             = errors.New("this record is still referenced and cannot be deleted")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// FieldError ties a validation failure to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
