package rbac

import (
	"context"
	"sync"

	"leave-core/internal/directory"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Static permission table. Role grouping (employee -> role) comes from the
// directory; both roles below inherit nothing implicitly, every grant is
// listed.
var rolePermissions = [][3]string{
	{directory.RoleEmployee, "leave", "read"},
	{directory.RoleEmployee, "leave", "create"},
	{directory.RoleEmployee, "leave", "update"},
	{directory.RoleEmployee, "leave", "cancel"},
	{directory.RoleEmployee, "balance", "read"},
	{directory.RoleEmployee, "holiday", "read"},

	{directory.RoleManager, "leave", "read"},
	{directory.RoleManager, "leave", "create"},
	{directory.RoleManager, "leave", "update"},
	{directory.RoleManager, "leave", "cancel"},
	{directory.RoleManager, "leave", "approve"},
	{directory.RoleManager, "balance", "read"},
	{directory.RoleManager, "audit", "read"},
	{directory.RoleManager, "holiday", "read"},

	{directory.RoleAdmin, "leave", "read"},
	{directory.RoleAdmin, "leave", "create"},
	{directory.RoleAdmin, "leave", "update"},
	{directory.RoleAdmin, "leave", "cancel"},
	{directory.RoleAdmin, "leave", "approve"},
	{directory.RoleAdmin, "leave", "apply_on_behalf"},
	{directory.RoleAdmin, "balance", "read"},
	{directory.RoleAdmin, "balance", "adjust"},
	{directory.RoleAdmin, "audit", "read"},
	{directory.RoleAdmin, "holiday", "read"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(employeeID, resource, action string) (bool, error)
}

type service struct {
	dir      directory.Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(dir directory.Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{dir: dir, enforcer: enforcer, logger: l}
}

func (s *service) LoadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	employees, err := s.dir.FindAllActive(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("rbac load policy", zap.Int("employees", len(employees)))

	for _, e := range employees {
		if _, err := s.enforcer.AddGroupingPolicy(e.ID.String(), e.Role); err != nil {
			return err
		}
	}

	for _, p := range rolePermissions {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(employeeID, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(employeeID, resource, action)
}
