// Package seed loads demo data from YAML fixture files.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/logging"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// File is the fixture document. Rows reference each other by name.
type File struct {
	Positions []string        `yaml:"positions"`
	TaskTypes []string        `yaml:"task_types"`
	Projects  []string        `yaml:"projects"`
	Workers   []WorkerFixture `yaml:"workers"`
	Tasks     []TaskFixture   `yaml:"tasks"`
}

type WorkerFixture struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Position  string `yaml:"position"`
	Project   string `yaml:"project"`
	Staff     bool   `yaml:"staff"`
}

type TaskFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Deadline    string   `yaml:"deadline"`
	Priority    string   `yaml:"priority"`
	Type        string   `yaml:"type"`
	Project     string   `yaml:"project"`
	Done        bool     `yaml:"done"`
	Assignees   []string `yaml:"assignees"`
}

// Result counts the rows created by Apply. Rows that already existed are
// left untouched and not counted.
type Result struct {
	Positions int
	TaskTypes int
	Projects  int
	Workers   int
	Tasks     int
}

var ErrUnknownReference = errors.New("unknown reference")

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFile parses the fixture file at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Apply inserts the fixtures in a single transaction. Applying the same file
// twice creates nothing the second time.
func Apply(db *gorm.DB, f *File) (*Result, error) {
	result := &Result{}
	err := db.Transaction(func(tx *gorm.DB) error {
		l := loader{tx: tx, result: result}
		return l.run(f)
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.WithFields(logrus.Fields{
		"positions":  result.Positions,
		"task_types": result.TaskTypes,
		"projects":   result.Projects,
		"workers":    result.Workers,
		"tasks":      result.Tasks,
	}).Info("Fixtures applied")
	return result, nil
}

type loader struct {
	tx     *gorm.DB
	result *Result

	positions map[string]uint64
	taskTypes map[string]uint64
	projects  map[string]uint64
	workers   map[string]uint64
}

func (l *loader) run(f *File) error {
	var err error
	if l.positions, err = ensureNamed[models.Position](l.tx, f.Positions, &l.result.Positions); err != nil {
		return err
	}
	if l.taskTypes, err = ensureNamed[models.TaskType](l.tx, f.TaskTypes, &l.result.TaskTypes); err != nil {
		return err
	}
	if l.projects, err = ensureNamed[models.Project](l.tx, f.Projects, &l.result.Projects); err != nil {
		return err
	}

	l.workers = map[string]uint64{}
	for _, wf := range f.Workers {
		if err := l.worker(wf); err != nil {
			return fmt.Errorf("worker %q: %w", wf.Username, err)
		}
	}
	for _, tf := range f.Tasks {
		if err := l.task(tf); err != nil {
			return fmt.Errorf("task %q: %w", tf.Name, err)
		}
	}
	return nil
}

// ensureNamed finds or creates one row per name and returns name -> id.
func ensureNamed[T models.Position | models.TaskType | models.Project](tx *gorm.DB, names []string, created *int) (map[string]uint64, error) {
	ids := make(map[string]uint64, len(names))
	for _, name := range names {
		var row T
		res := tx.Where("name = ?", name).Limit(1).Find(&row)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			row = newNamed[T](name)
			if err := tx.Create(&row).Error; err != nil {
				return nil, fmt.Errorf("failed to create %q: %w", name, err)
			}
			*created++
		}
		ids[name] = namedID(row)
	}
	return ids, nil
}

func newNamed[T models.Position | models.TaskType | models.Project](name string) T {
	var row T
	switch r := any(&row).(type) {
	case *models.Position:
		r.Name = name
	case *models.TaskType:
		r.Name = name
	case *models.Project:
		r.Name = name
	}
	return row
}

func namedID(row any) uint64 {
	switch r := row.(type) {
	case models.Position:
		return r.ID
	case models.TaskType:
		return r.ID
	case models.Project:
		return r.ID
	}
	return 0
}

func (l *loader) worker(wf WorkerFixture) error {
	var existing models.Worker
	res := l.tx.Where("username = ?", wf.Username).Limit(1).Find(&existing)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		l.workers[wf.Username] = existing.ID
		return nil
	}

	if len(wf.Password) < constants.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(wf.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	worker := models.Worker{
		Username:     wf.Username,
		PasswordHash: string(hash),
		FirstName:    wf.FirstName,
		LastName:     wf.LastName,
		Email:        wf.Email,
		IsStaff:      wf.Staff,
	}
	if worker.PositionID, err = lookup(l.positions, wf.Position, "position"); err != nil {
		return err
	}
	if worker.ProjectID, err = lookup(l.projects, wf.Project, "project"); err != nil {
		return err
	}
	if err := l.tx.Omit(clause.Associations).Create(&worker).Error; err != nil {
		return err
	}
	l.workers[wf.Username] = worker.ID
	l.result.Workers++
	return nil
}

func (l *loader) task(tf TaskFixture) error {
	projectID, ok := l.projects[tf.Project]
	if !ok {
		return fmt.Errorf("%w: project %q", ErrUnknownReference, tf.Project)
	}
	typeID, ok := l.taskTypes[tf.Type]
	if !ok {
		return fmt.Errorf("%w: task type %q", ErrUnknownReference, tf.Type)
	}

	var count int64
	if err := l.tx.Model(&models.Task{}).
		Where("project_id = ? AND name = ?", projectID, tf.Name).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	deadline, err := time.ParseInLocation(constants.DateLayout, tf.Deadline, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid deadline %q", tf.Deadline)
	}
	priority := models.PriorityMedium
	if tf.Priority != "" {
		priority = models.TaskPriority(tf.Priority)
		if !priority.Valid() {
			return fmt.Errorf("invalid priority %q", tf.Priority)
		}
	}

	task := models.Task{
		Name:        tf.Name,
		Description: tf.Description,
		Deadline:    deadline,
		Priority:    priority,
		IsCompleted: tf.Done,
		TaskTypeID:  typeID,
		ProjectID:   projectID,
	}
	assigneeIDs := make([]uint64, 0, len(tf.Assignees))
	for _, username := range tf.Assignees {
		workerID, ok := l.workers[username]
		if !ok {
			return fmt.Errorf("%w: worker %q", ErrUnknownReference, username)
		}
		assigneeIDs = append(assigneeIDs, workerID)
	}
	if err := repository.NewTaskRepository(l.tx).Create(&task, assigneeIDs); err != nil {
		return err
	}
	l.result.Tasks++
	return nil
}

// lookup resolves an optional name. An empty name means none.
func lookup(ids map[string]uint64, name, kind string) (*uint64, error) {
	if name == "" {
		return nil, nil
	}
	id, ok := ids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, name)
	}
	return &id, nil
}
