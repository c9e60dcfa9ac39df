package mocks

import (
	"context"

	"github.com/Houeta/payroll/internal/models"
	"github.com/stretchr/testify/mock"
)

// RosterParserIface is a testify mock for parser.RosterParserIface.
type RosterParserIface struct {
	mock.Mock
}

func NewRosterParserIface(t interface {
	mock.TestingT
	Cleanup(func())
}) *RosterParserIface {
	m := &RosterParserIface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *RosterParserIface) ParseRoster(ctx context.Context) ([]models.RosterEntry, error) {
	ret := m.Called(ctx)

	var entries []models.RosterEntry
	if ret.Get(0) != nil {
		entries = ret.Get(0).([]models.RosterEntry)
	}

	return entries, ret.Error(1)
}
