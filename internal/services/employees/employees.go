package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/models"
	"github.com/Houeta/payroll/internal/parser"
	"github.com/Houeta/payroll/internal/repository"
	"github.com/tamathecxder/randomail"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrInvalidPage     = errors.New("page must not be negative or beyond the last addressable row")
	ErrInvalidPageSize = fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
	ErrRosterDisabled  = errors.New("roster sync is not configured")
)

// Staff holds the employee use cases behind the REST API, the seed loader
// and the roster synchronisation.
type Staff struct {
	log        *slog.Logger
	repo       repository.EmployeeRepoIface
	statusRepo repository.StatusRepoIface
	roster     parser.RosterParserIface
	metrics    *metrics.Metrics
	newEmail   func() string
}

// NewStaff wires the service. roster may be nil when the roster import is off.
func NewStaff(
	log *slog.Logger,
	repo repository.EmployeeRepoIface,
	statusRepo repository.StatusRepoIface,
	roster parser.RosterParserIface,
	metrics *metrics.Metrics,
) *Staff {
	return &Staff{
		log:        log,
		repo:       repo,
		statusRepo: statusRepo,
		roster:     roster,
		metrics:    metrics,
		newEmail:   randomail.GenerateRandomEmail,
	}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

// Patch carries the fields of a partial update. Nil fields are left as they are.
type Patch struct {
	FirstName   *string
	LastName    *string
	Description *string
	JobTitle    *string
	JobYears    *int
	Email       *string
}

// Page is one slice of the employee list.
type Page struct {
	Employees     []models.Employee
	Number        int
	Size          int
	TotalElements int
}

// TotalPages is the number of pages of Size needed for TotalElements.
func (p Page) TotalPages() int {
	if p.Size == 0 {
		return 0
	}

	return (p.TotalElements + p.Size - 1) / p.Size
}

// Create stores a new employee. Any id already on the value is ignored.
func (s *Staff) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	log := s.initLogger("Staff.Create")

	saved, err := s.repo.SaveEmployee(ctx, employee)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save employee", sl.Err(err))
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	log.InfoContext(ctx, "Employee created", sl.Employee(saved))

	return saved, nil
}

func (s *Staff) Get(ctx context.Context, identifier int64) (models.Employee, error) {
	employee, err := s.repo.GetEmployeeByID(ctx, identifier)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee %d: %w", identifier, err)
	}

	return employee, nil
}

// List returns the zero based page of employees ordered by id.
func (s *Staff) List(ctx context.Context, page, size int) (Page, error) {
	if size < 1 || size > MaxPageSize {
		return Page{}, ErrInvalidPageSize
	}
	// page*size is the SQL offset and must not wrap.
	if page < 0 || page > math.MaxInt/size {
		return Page{}, ErrInvalidPage
	}

	total, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list employees: %w", err)
	}

	result := Page{Number: page, Size: size, TotalElements: total}
	if page*size >= total {
		return result, nil
	}

	result.Employees, err = s.repo.ListEmployees(ctx, size, page*size)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list employees: %w", err)
	}

	return result, nil
}

// Replace overwrites every field of the stored employee with the given value.
func (s *Staff) Replace(ctx context.Context, identifier int64, employee models.Employee) (models.Employee, error) {
	log := s.initLogger("Staff.Replace")

	updated := employee.WithID(identifier)
	if err := s.repo.UpdateEmployee(ctx, updated); err != nil {
		return models.Employee{}, fmt.Errorf("failed to replace employee %d: %w", identifier, err)
	}

	log.InfoContext(ctx, "Employee replaced", sl.Employee(updated))

	return updated, nil
}

// Update applies the patch through the entity setters, so a patch can never
// leave an invalid employee behind.
func (s *Staff) Update(ctx context.Context, identifier int64, patch Patch) (models.Employee, error) {
	log := s.initLogger("Staff.Update")

	current, err := s.repo.GetEmployeeByID(ctx, identifier)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee %d: %w", identifier, err)
	}

	updated, err := patch.apply(current)
	if err != nil {
		return models.Employee{}, err
	}

	if updated.Equal(current) {
		log.DebugContext(ctx, "Nothing to update", sl.Employee(current))
		return current, nil
	}

	if err = s.repo.UpdateEmployee(ctx, updated); err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", identifier, err)
	}

	log.InfoContext(ctx, "Employee updated", sl.Employee(updated))

	return updated, nil
}

func (p Patch) apply(employee models.Employee) (models.Employee, error) {
	var err error

	steps := []struct {
		set   bool
		apply func(models.Employee) (models.Employee, error)
	}{
		{p.FirstName != nil, func(e models.Employee) (models.Employee, error) { return e.WithFirstName(*p.FirstName) }},
		{p.LastName != nil, func(e models.Employee) (models.Employee, error) { return e.WithLastName(*p.LastName) }},
		{p.Description != nil, func(e models.Employee) (models.Employee, error) { return e.WithDescription(*p.Description) }},
		{p.JobTitle != nil, func(e models.Employee) (models.Employee, error) { return e.WithJobTitle(*p.JobTitle) }},
		{p.JobYears != nil, func(e models.Employee) (models.Employee, error) { return e.WithJobYears(*p.JobYears) }},
		{p.Email != nil, func(e models.Employee) (models.Employee, error) { return e.WithEmail(*p.Email) }},
	}

	for _, step := range steps {
		if !step.set {
			continue
		}
		if employee, err = step.apply(employee); err != nil {
			return models.Employee{}, err
		}
	}

	return employee, nil
}

func (s *Staff) Delete(ctx context.Context, identifier int64) error {
	log := s.initLogger("Staff.Delete")

	if err := s.repo.DeleteEmployee(ctx, identifier); err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", identifier, err)
	}

	log.InfoContext(ctx, "Employee deleted", slog.Int64("id", identifier))

	return nil
}
