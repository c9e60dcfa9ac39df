package employees

import (
	"context"
	"fmt"
	"os"

	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/Houeta/payroll/internal/models"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Employees []seedRecord `yaml:"employees"`
}

type seedRecord struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Description string `yaml:"description"`
	JobTitle    string `yaml:"job_title"`
	JobYears    int    `yaml:"job_years"`
	Email       string `yaml:"email"`
}

func (r seedRecord) employee() (models.Employee, error) {
	entry := models.RosterEntry{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Description: r.Description,
		JobTitle:    r.JobTitle,
		JobYears:    r.JobYears,
		Email:       r.Email,
		EmailColumn: r.Email != "",
	}

	return entry.Employee()
}

// LoadSeed reads and validates every record of a YAML seed file.
func LoadSeed(path string) ([]models.Employee, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err = yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	var invalid error
	employees := lo.FilterMap(file.Employees, func(record seedRecord, index int) (models.Employee, bool) {
		employee, recordErr := record.employee()
		if recordErr != nil && invalid == nil {
			invalid = fmt.Errorf("seed record %d (%s %s): %w", index, record.FirstName, record.LastName, recordErr)
		}

		return employee, recordErr == nil
	})
	if invalid != nil {
		return nil, invalid
	}

	return employees, nil
}

// Seed stores the employees of the seed file whose names are not in the
// database yet and returns how many were saved.
func (s *Staff) Seed(ctx context.Context, path string) (int, error) {
	log := s.initLogger("Staff.Seed")

	employees, err := LoadSeed(path)
	if err != nil {
		return 0, err
	}

	var saved int
	for _, employee := range employees {
		_, found, lookupErr := s.lookup(ctx, employee.FirstName(), employee.LastName())
		if lookupErr != nil {
			return saved, lookupErr
		}
		if found {
			log.DebugContext(ctx, "Seed employee already present", sl.Employee(employee))
			continue
		}

		preloaded, saveErr := s.repo.SaveEmployee(ctx, employee)
		if saveErr != nil {
			return saved, fmt.Errorf("failed to save seed employee: %w", saveErr)
		}
		saved++

		log.InfoContext(ctx, "Preloading "+preloaded.String())
	}

	return saved, nil
}
