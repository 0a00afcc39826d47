package directory

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindManagerOf(ctx context.Context, employeeID string) (*Employee, error)
	FindDirectReports(ctx context.Context, managerID string) ([]Employee, error)
	FindByRole(ctx context.Context, role string) ([]Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindManagerOf(ctx context.Context, employeeID string) (*Employee, error) {
	var m Employee
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		Where("id = (SELECT manager_id FROM employees WHERE id = ?)", employeeID).
		First(&m).Error
	return &m, err
}

func (r *repository) FindDirectReports(ctx context.Context, managerID string) ([]Employee, error) {
	var reports []Employee
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Where("active = TRUE").
		Order("full_name ASC").
		Find(&reports).Error
	return reports, err
}

func (r *repository) FindByRole(ctx context.Context, role string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("active = TRUE").
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		Find(&employees).Error
	return employees, err
}
