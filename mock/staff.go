package mocks

import (
	"context"

	"github.com/Houeta/payroll/internal/models"
	"github.com/Houeta/payroll/internal/services/employees"
	"github.com/stretchr/testify/mock"
)

// StaffService is a testify mock for server.StaffService.
type StaffService struct {
	mock.Mock
}

func NewStaffService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StaffService {
	m := &StaffService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *StaffService) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	ret := m.Called(ctx, employee)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *StaffService) Get(ctx context.Context, identifier int64) (models.Employee, error) {
	ret := m.Called(ctx, identifier)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *StaffService) List(ctx context.Context, page, size int) (employees.Page, error) {
	ret := m.Called(ctx, page, size)

	return ret.Get(0).(employees.Page), ret.Error(1)
}

func (m *StaffService) Replace(
	ctx context.Context,
	identifier int64,
	employee models.Employee,
) (models.Employee, error) {
	ret := m.Called(ctx, identifier, employee)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *StaffService) Update(ctx context.Context, identifier int64, patch employees.Patch) (models.Employee, error) {
	ret := m.Called(ctx, identifier, patch)

	return ret.Get(0).(models.Employee), ret.Error(1)
}

func (m *StaffService) Delete(ctx context.Context, identifier int64) error {
	ret := m.Called(ctx, identifier)

	return ret.Error(0)
}
