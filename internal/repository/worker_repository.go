package repository

import (
	"strings"

	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkerRepository is a GORM implementation of WorkerRepository
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new WorkerRepository
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &GormWorkerRepository{db: db}
}

// Create creates a new worker
func (r *GormWorkerRepository) Create(worker *models.Worker) error {
	return r.db.Omit(clause.Associations).Create(worker).Error
}

// FindByID finds a worker by ID with optional preloading
func (r *GormWorkerRepository) FindByID(id uint64, preload ...string) (*models.Worker, error) {
	var worker models.Worker
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindByUsername finds a worker by username
func (r *GormWorkerRepository) FindByUsername(username string) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.Where("username = ?", username).First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// likeEscaper escapes LIKE wildcards using '!' so the pattern is portable
// across MySQL, PostgreSQL and SQLite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a "contains" LIKE pattern. Case folding happens in
// the database on both sides of the LIKE.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *GormWorkerRepository) searchScope(name string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		name = strings.TrimSpace(name)
		if name == "" {
			return db
		}
		pattern := containsPattern(name)
		return db.Where(
			r.db.Where("LOWER(first_name) LIKE LOWER(?) ESCAPE '!'", pattern).
				Or("LOWER(last_name) LIKE LOWER(?) ESCAPE '!'", pattern),
		)
	}
}

// Search lists workers whose first or last name contains the filter's name
func (r *GormWorkerRepository) Search(filter WorkerFilter) ([]models.Worker, int64, error) {
	var total int64
	if err := r.db.Model(&models.Worker{}).Scopes(r.searchScope(filter.Name)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []models.Worker
	if err := r.db.Model(&models.Worker{}).
		Scopes(r.searchScope(filter.Name), database.Paginate(filter.Pagination)).
		Preload("Position").
		Order("id ASC").
		Find(&workers).Error; err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

// Count counts all workers
func (r *GormWorkerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Worker{}).Count(&count).Error
	return count, err
}

// CountByProject counts workers in a project
func (r *GormWorkerRepository) CountByProject(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Worker{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// CountInProject counts how many of the given worker IDs belong to the project
func (r *GormWorkerRepository) CountInProject(workerIDs []uint64, projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Worker{}).
		Where("project_id = ? AND id IN ?", projectID, workerIDs).
		Count(&count).Error
	return count, err
}

// ListByProject lists the workers of a project
func (r *GormWorkerRepository) ListByProject(projectID uint64) ([]models.Worker, error) {
	var workers []models.Worker
	if err := r.db.Where("project_id = ?", projectID).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

// Update saves a worker's own columns and drops their assignments to tasks
// outside their project
func (r *GormWorkerRepository) Update(worker *models.Worker) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(worker).Error; err != nil {
			return err
		}

		stale := tx.Where("worker_id = ?", worker.ID)
		if worker.ProjectID != nil {
			otherTasks := tx.Unscoped().Model(&models.Task{}).Select("id").Where("project_id <> ?", *worker.ProjectID)
			stale = stale.Where("task_id IN (?)", otherTasks)
		}
		return stale.Delete(&models.TaskAssignment{}).Error
	})
}
