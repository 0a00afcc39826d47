package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context) ([]Holiday, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindInRange(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}
