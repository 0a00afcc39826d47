package directory

import (
	"context"
	"errors"

	directoryerrors "leave-core/internal/directory/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, employeeID string) (IdentityResponse, error)
	// GetManagerOf resolves the reports-to edge. A nil result with no error
	// means the employee has no manager (orphan).
	GetManagerOf(ctx context.Context, employeeID string) (*IdentityResponse, error)
	GetDirectReports(ctx context.Context, managerID string) ([]IdentityResponse, error)
	IsAdmin(ctx context.Context, employeeID string) (bool, error)
	ListAdmins(ctx context.Context) ([]IdentityResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByID(ctx context.Context, employeeID string) (IdentityResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return IdentityResponse{}, directoryerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IdentityResponse{}, directoryerrors.ErrEmployeeNotFound
		}
		return IdentityResponse{}, err
	}
	return mapToIdentity(*e), nil
}

func (s *service) GetManagerOf(ctx context.Context, employeeID string) (*IdentityResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, directoryerrors.ErrInvalidEmployeeID
	}

	m, err := s.repo.FindManagerOf(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Orphan employee: not an error, routing falls through to the
			// admin pool.
			return nil, nil
		}
		return nil, err
	}
	resp := mapToIdentity(*m)
	return &resp, nil
}

func (s *service) GetDirectReports(ctx context.Context, managerID string) ([]IdentityResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, directoryerrors.ErrInvalidEmployeeID
	}

	reports, err := s.repo.FindDirectReports(ctx, managerID)
	if err != nil {
		return nil, err
	}

	resp := make([]IdentityResponse, len(reports))
	for i, e := range reports {
		resp[i] = mapToIdentity(e)
	}
	return resp, nil
}

func (s *service) IsAdmin(ctx context.Context, employeeID string) (bool, error) {
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return e.Role == RoleAdmin, nil
}

func (s *service) ListAdmins(ctx context.Context) ([]IdentityResponse, error) {
	admins, err := s.repo.FindByRole(ctx, RoleAdmin)
	if err != nil {
		return nil, err
	}

	resp := make([]IdentityResponse, len(admins))
	for i, e := range admins {
		resp[i] = mapToIdentity(e)
	}
	return resp, nil
}
