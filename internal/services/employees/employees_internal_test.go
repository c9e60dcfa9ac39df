package employees

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStaff() *Staff {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	staff := NewStaff(logger, nil, nil, nil, metrics.NewMetrics(prometheus.NewRegistry()))
	staff.newEmail = func() string { return "generated@mail.com" }

	return staff
}

func TestFixEmail(t *testing.T) {
	t.Parallel()

	stored, err := models.NewEmployeeWithEmail("Frodo", "Baggins", "ring bearer", "Hobbit", 3, "stored@mail.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		entry    models.RosterEntry
		existing models.Employee
		want     string
		fixed    bool
	}{
		{
			name:  "no email column",
			entry: models.RosterEntry{},
			want:  "",
		},
		{
			name:  "valid email kept",
			entry: models.RosterEntry{Email: "f_bagins@mail.com", EmailColumn: true},
			want:  "f_bagins@mail.com",
		},
		{
			name:  "blank email generated",
			entry: models.RosterEntry{EmailColumn: true},
			want:  "generated@mail.com",
			fixed: true,
		},
		{
			name:  "malformed email generated",
			entry: models.RosterEntry{Email: "not-an-email", EmailColumn: true},
			want:  "generated@mail.com",
			fixed: true,
		},
		{
			name:     "stored email reused",
			entry:    models.RosterEntry{Email: "broken@", EmailColumn: true},
			existing: stored,
			want:     "stored@mail.com",
			fixed:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			staff := newTestStaff()
			logger := staff.initLogger("test")

			got := staff.fixEmail(context.Background(), logger, tt.entry, tt.existing)

			assert.Equal(t, tt.want, got.Email)
			assert.Equal(t, tt.entry.EmailColumn, got.EmailColumn)

			var expectedFixed float64
			if tt.fixed {
				expectedFixed = 1
			}
			assert.InDelta(t, expectedFixed, testutil.ToFloat64(staff.metrics.EmailsFixed), 0)
		})
	}
}

func TestPageTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Page{}.TotalPages())
	assert.Equal(t, 0, Page{Size: 10}.TotalPages())
	assert.Equal(t, 1, Page{Size: 10, TotalElements: 10}.TotalPages())
	assert.Equal(t, 2, Page{Size: 10, TotalElements: 11}.TotalPages())
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, isValidEmail("f_bagins@mail.com"))
	assert.False(t, isValidEmail("testuser.com"))
	assert.False(t, isValidEmail(""))
}
