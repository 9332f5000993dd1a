package models

import "time"

// TaskType classifies tasks, e.g. "Bug" or "Feature".
type TaskType struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position classifies workers by job title.
type Position struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t TaskType) LabelID() uint64   { return t.ID }
func (t TaskType) LabelName() string { return t.Name }

func (p Position) LabelID() uint64   { return p.ID }
func (p Position) LabelName() string { return p.Name }
