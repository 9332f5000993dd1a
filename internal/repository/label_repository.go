package repository

import (
	"gorm.io/gorm"
)

// GormLabelRepository is a GORM implementation of LabelRepository
type GormLabelRepository[T Label] struct {
	db *gorm.DB
}

// NewLabelRepository creates a LabelRepository for the table of T
func NewLabelRepository[T Label](db *gorm.DB) LabelRepository[T] {
	return &GormLabelRepository[T]{db: db}
}

func (r *GormLabelRepository[T]) Create(label *T) error {
	return r.db.Create(label).Error
}

func (r *GormLabelRepository[T]) FindByID(id uint64) (*T, error) {
	var label T
	if err := r.db.First(&label, id).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *GormLabelRepository[T]) FindByName(name string) (*T, error) {
	var label T
	if err := r.db.Where("name = ?", name).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *GormLabelRepository[T]) List() ([]T, error) {
	var labels []T
	if err := r.db.Order("name ASC").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *GormLabelRepository[T]) Rename(id uint64, name string) error {
	result := r.db.Model(new(T)).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormLabelRepository[T]) Delete(id uint64) error {
	result := r.db.Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
