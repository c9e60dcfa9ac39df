package sl

import (
	"log/slog"

	"github.com/Houeta/payroll/internal/models"
)

// Err creates a slog.Attr with the given error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Employee groups the identifying fields of an employee under the "employee" key.
func Employee(emp models.Employee) slog.Attr {
	attrs := make([]any, 0, 4)

	if id, ok := emp.ID(); ok {
		attrs = append(attrs, slog.Int64("id", id))
	}
	attrs = append(attrs,
		slog.String("first_name", emp.FirstName()),
		slog.String("last_name", emp.LastName()),
		slog.String("flavor", emp.Flavor().String()),
	)

	return slog.Group("employee", attrs...)
}
