package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard/internal/repository"
	"gorm.io/gorm"
)

// LabelService manages a table of named labels (task types or positions).
type LabelService[T repository.Label] struct {
	repo     repository.LabelRepository[T]
	newLabel func(name string) *T
}

// NewLabelService creates a LabelService. newLabel builds an unsaved row.
func NewLabelService[T repository.Label](repo repository.LabelRepository[T], newLabel func(name string) *T) *LabelService[T] {
	return &LabelService[T]{repo: repo, newLabel: newLabel}
}

func (s *LabelService[T]) List() ([]T, error) {
	labels, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

func (s *LabelService[T]) Get(id uint64) (*T, error) {
	label, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("failed to find label: %w", err)
	}
	return label, nil
}

// Create adds a label with a unique, non-empty name.
func (s *LabelService[T]) Create(name string) (*T, error) {
	name, err := s.checkName(name, 0)
	if err != nil {
		return nil, err
	}
	label := s.newLabel(name)
	if err := s.repo.Create(label); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return label, nil
}

// Rename changes a label's name.
func (s *LabelService[T]) Rename(id uint64, name string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	name, err := s.checkName(name, id)
	if err != nil {
		return err
	}
	if err := s.repo.Rename(id, name); err != nil {
		return fmt.Errorf("failed to rename label: %w", err)
	}
	return nil
}

// Delete removes a label. Labels still referenced by rows fail with ErrLabelInUse.
func (s *LabelService[T]) Delete(id uint64) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabelNotFound
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrLabelInUse
		}
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

// checkName trims name and rejects it when empty or used by a label other
// than self.
func (s *LabelService[T]) checkName(name string, self uint64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fieldError("name", ErrNameRequired)
	}
	if existing, err := s.repo.FindByName(name); err == nil {
		if (*existing).LabelID() != self {
			return "", fieldError("name", ErrLabelTaken)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check name: %w", err)
	}
	return name, nil
}
