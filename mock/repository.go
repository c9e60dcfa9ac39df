package mocks

import (
	"context"
	"time"

	"github.com/Houeta/payroll/internal/models"
	"github.com/stretchr/testify/mock"
)

// EmployeeRepoIface is a testify mock for repository.EmployeeRepoIface.
type EmployeeRepoIface struct {
	mock.Mock
}

// NewEmployeeRepoIface creates the mock and asserts its expectations on cleanup.
func NewEmployeeRepoIface(t interface {
	mock.TestingT
	Cleanup(func())
}) *EmployeeRepoIface {
	m := &EmployeeRepoIface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *EmployeeRepoIface) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	ret := m.Called(ctx, employee)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *EmployeeRepoIface) UpdateEmployee(ctx context.Context, employee models.Employee) error {
	ret := m.Called(ctx, employee)

	return ret.Error(0)
}

func (m *EmployeeRepoIface) GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, error) {
	ret := m.Called(ctx, identifier)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *EmployeeRepoIface) FindEmployeeByName(
	ctx context.Context,
	firstName, lastName string,
) (models.Employee, error) {
	ret := m.Called(ctx, firstName, lastName)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *EmployeeRepoIface) ListEmployees(ctx context.Context, limit, offset int) ([]models.Employee, error) {
	ret := m.Called(ctx, limit, offset)

	var employees []models.Employee
	if ret.Get(0) != nil {
		employees = ret.Get(0).([]models.Employee)
	}

	return employees, ret.Error(1)
}

func (m *EmployeeRepoIface) CountEmployees(ctx context.Context) (int, error) {
	ret := m.Called(ctx)

	return ret.Int(0), ret.Error(1)
}

func (m *EmployeeRepoIface) DeleteEmployee(ctx context.Context, identifier int64) error {
	ret := m.Called(ctx, identifier)

	return ret.Error(0)
}

// StatusRepoIface is a testify mock for repository.StatusRepoIface.
type StatusRepoIface struct {
	mock.Mock
}

func NewStatusRepoIface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatusRepoIface {
	m := &StatusRepoIface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *StatusRepoIface) SaveLastSyncedAt(ctx context.Context, date time.Time) error {
	ret := m.Called(ctx, date)

	return ret.Error(0)
}

func (m *StatusRepoIface) GetLastSyncedAt(ctx context.Context) (time.Time, error) {
	ret := m.Called(ctx)

	return ret.Get(0).(time.Time), ret.Error(1)
}
