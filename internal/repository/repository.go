package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/models"
)

// ErrEmployeeNotFound is returned when no employee matches the lookup.
var ErrEmployeeNotFound = errors.New("employee not found")

// ErrTransientEmployee is returned when an operation needs a persisted employee.
var ErrTransientEmployee = errors.New("employee has no id")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

type StatusRepoIface interface {
	SaveLastSyncedAt(ctx context.Context, date time.Time) error
	GetLastSyncedAt(ctx context.Context) (time.Time, error)
}

func NewStatusRepository(db Database, metrics *metrics.Metrics) StatusRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	UpdateEmployee(ctx context.Context, employee models.Employee) error
	GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, error)
	FindEmployeeByName(ctx context.Context, firstName, lastName string) (models.Employee, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]models.Employee, error)
	CountEmployees(ctx context.Context) (int, error)
	DeleteEmployee(ctx context.Context, identifier int64) error
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

func (r *Repository) observe(queryType string, startTime time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
