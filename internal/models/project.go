package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Workers []Worker `gorm:"foreignKey:ProjectID" json:"workers,omitempty"`
	Tasks   []Task   `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
