package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Worker is an authenticated user of the application.
type Worker struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string         `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(150)" json:"last_name"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	IsStaff      bool           `gorm:"not null" json:"is_staff"`
	PositionID   *uint64        `gorm:"index" json:"position_id"`
	ProjectID    *uint64        `gorm:"index" json:"project_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Position    *Position        `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Project     *Project         `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:WorkerID" json:"-"`
}

// FullName returns "First Last", falling back to the username.
func (w Worker) FullName() string {
	name := strings.TrimSpace(w.FirstName + " " + w.LastName)
	if name == "" {
		return w.Username
	}
	return name
}

// InProject reports whether the worker is a member of the given project.
func (w Worker) InProject(projectID uint64) bool {
	return w.ProjectID != nil && *w.ProjectID == projectID
}
