// Package testutil provides an in-memory database and fixture builders for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every worker created by Fixtures.
const Password = "supersecret"

// NewDB opens a migrated in-memory SQLite database that is closed when the
// test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models...))
	return db
}

// Fixtures creates rows for tests.
type Fixtures struct {
	t   *testing.T
	db  *gorm.DB
	seq int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) Project(name string) *models.Project {
	f.t.Helper()
	project := &models.Project{Name: name}
	require.NoError(f.t, f.db.Create(project).Error)
	return project
}

func (f *Fixtures) TaskType(name string) *models.TaskType {
	f.t.Helper()
	taskType := &models.TaskType{Name: name}
	require.NoError(f.t, f.db.Create(taskType).Error)
	return taskType
}

func (f *Fixtures) Position(name string) *models.Position {
	f.t.Helper()
	position := &models.Position{Name: name}
	require.NoError(f.t, f.db.Create(position).Error)
	return position
}

// Worker creates a worker with Password. A nil project leaves the worker
// without a project.
func (f *Fixtures) Worker(username, firstName, lastName string, project *models.Project) *models.Worker {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(f.t, err)

	worker := &models.Worker{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	}
	if project != nil {
		worker.ProjectID = &project.ID
	}
	require.NoError(f.t, f.db.Omit("Position", "Project").Create(worker).Error)
	return worker
}

// Staff creates a staff worker.
func (f *Fixtures) Staff(username string) *models.Worker {
	f.t.Helper()
	worker := f.Worker(username, "", "", nil)
	require.NoError(f.t, f.db.Model(worker).Update("is_staff", true).Error)
	worker.IsStaff = true
	return worker
}

// TaskSpec describes a task to create. Zero fields get defaults.
type TaskSpec struct {
	Name      string
	Deadline  time.Time
	Priority  models.TaskPriority
	Done      bool
	Project   *models.Project
	TaskType  *models.TaskType
	Assignees []*models.Worker
}

func (f *Fixtures) Task(spec TaskSpec) *models.Task {
	f.t.Helper()
	require.NotNil(f.t, spec.Project, "task fixture needs a project")

	if spec.Name == "" {
		spec.Name = "Task"
	}
	if spec.Deadline.IsZero() {
		spec.Deadline = Today().AddDate(0, 0, 7)
	}
	if spec.Priority == "" {
		spec.Priority = models.PriorityMedium
	}
	if spec.TaskType == nil {
		f.seq++
		spec.TaskType = f.TaskType(fmt.Sprintf("%s type %d", spec.Name, f.seq))
	}

	task := &models.Task{
		Name:        spec.Name,
		Description: spec.Name + " description",
		Deadline:    models.Date(spec.Deadline),
		Priority:    spec.Priority,
		IsCompleted: spec.Done,
		TaskTypeID:  spec.TaskType.ID,
		ProjectID:   spec.Project.ID,
	}
	require.NoError(f.t, f.db.Omit("TaskType", "Project", "Assignments").Create(task).Error)

	for _, w := range spec.Assignees {
		require.NoError(f.t, f.db.Omit("Task", "Worker").Create(&models.TaskAssignment{
			TaskID:   task.ID,
			WorkerID: w.ID,
		}).Error)
	}
	return task
}

// Reload re-reads a task with its assignments.
func (f *Fixtures) Reload(task *models.Task) *models.Task {
	f.t.Helper()
	var fresh models.Task
	require.NoError(f.t, f.db.Preload("Assignments").First(&fresh, task.ID).Error)
	return &fresh
}

// Today is the current UTC-midnight date, matching the service clock default.
func Today() time.Time {
	return models.Date(time.Now().UTC())
}
