package repository

import (
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its assignments in one transaction
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// filterScope applies every set field of the filter to a tasks query
func filterScope(filter TaskFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.ProjectID != nil {
			db = db.Where("tasks.project_id = ?", *filter.ProjectID)
		}
		if filter.DeadlineBefore != nil {
			db = db.Where("tasks.deadline < ?", *filter.DeadlineBefore)
		}
		if filter.Priority != nil {
			db = db.Where("tasks.priority = ?", *filter.Priority)
		}
		if filter.Completed != nil {
			db = db.Where("tasks.is_completed = ?", *filter.Completed)
		}
		return db
	}
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	total, err := r.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	query := r.db.Model(&models.Task{}).Scopes(filterScope(filter), database.Paginate(filter.Pagination))
	for _, p := range filter.Preload {
		query = query.Preload(p)
	}

	var tasks []models.Task
	if err := query.Order("tasks.deadline ASC").Order("tasks.id ASC").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(filter TaskFilter) (int64, error) {
	var total int64
	err := r.db.Model(&models.Task{}).Scopes(filterScope(filter)).Count(&total).Error
	return total, err
}

// Update saves a task's own columns and replaces its assignments
func (r *GormTaskRepository) Update(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// SetCompleted persists the completion flag only
func (r *GormTaskRepository) SetCompleted(id uint64, completed bool) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Update("is_completed", completed).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// insertAssignments assigns workers to a task, ignoring ones already assigned
func insertAssignments(tx *gorm.DB, taskID uint64, workerIDs []uint64) error {
	if len(workerIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(workerIDs))
	for i, workerID := range workerIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:   taskID,
			WorkerID: workerID,
		}
	}

	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignments).Error
}
