package models

import "time"

// TaskAssignment links a worker to a task they are assigned to.
type TaskAssignment struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	WorkerID  uint64    `gorm:"primarykey;index" json:"worker_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task   Task   `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Worker Worker `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}
