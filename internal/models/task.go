package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityUrgent TaskPriority = "Urgent"
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// Priorities lists the valid priorities from most to least pressing.
var Priorities = []TaskPriority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of Priorities.
func (p TaskPriority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Deadline    time.Time      `gorm:"type:date;not null;index" json:"deadline"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null" json:"priority"`
	IsCompleted bool           `gorm:"not null;index" json:"is_completed"`
	TaskTypeID  uint64         `gorm:"not null" json:"task_type_id"`
	ProjectID   uint64         `gorm:"not null;index" json:"project_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	TaskType    TaskType         `gorm:"foreignKey:TaskTypeID" json:"task_type,omitempty"`
	Project     Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// HasAssignee reports whether the worker is among the task's assignees.
// Assignments must be loaded.
func (t Task) HasAssignee(workerID uint64) bool {
	for _, a := range t.Assignments {
		if a.WorkerID == workerID {
			return true
		}
	}
	return false
}

// AssigneeIDs returns the ids of the loaded assignees.
func (t Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.WorkerID)
	}
	return ids
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
