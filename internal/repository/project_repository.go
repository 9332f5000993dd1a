package repository

import (
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists all projects by name
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("name ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Rename changes a project's name
func (r *GormProjectRepository) Rename(id uint64, name string) error {
	return r.db.Model(&models.Project{}).Where("id = ?", id).Update("name", name).Error
}
