package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/payroll/internal/models"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, first_name, last_name, description, job_title, job_years, email`

// SaveEmployee inserts a transient employee and returns it with the id assigned by the database.
func (r *Repository) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("save_employee", time.Now())

	query := `
		INSERT INTO employees (first_name, last_name, description, job_title, job_years, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`

	var identifier int64
	err := r.db.QueryRow(ctx, query,
		employee.FirstName(),
		employee.LastName(),
		employee.Description(),
		employee.JobTitle(),
		employee.JobYears(),
		nullableEmail(employee),
	).Scan(&identifier)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}

	return employee.WithID(identifier), nil
}

// UpdateEmployee overwrites every column of a persisted employee.
func (r *Repository) UpdateEmployee(ctx context.Context, employee models.Employee) error {
	identifier, ok := employee.ID()
	if !ok {
		return fmt.Errorf("failed to update employee data: %w", ErrTransientEmployee)
	}

	defer r.observe("update_employee", time.Now())

	query := `
		UPDATE employees
		SET first_name = $2, last_name = $3, description = $4, job_title = $5, job_years = $6, email = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1;
	`

	tag, err := r.db.Exec(ctx, query,
		identifier,
		employee.FirstName(),
		employee.LastName(),
		employee.Description(),
		employee.JobTitle(),
		employee.JobYears(),
		nullableEmail(employee),
	)
	if err != nil {
		return fmt.Errorf("failed to update employee data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update employee data: %w", ErrEmployeeNotFound)
	}

	return nil
}

// GetEmployeeByID retrieves an employee from the database by their ID.
func (r *Repository) GetEmployeeByID(ctx context.Context, identifier int64) (models.Employee, error) {
	defer r.observe("get_employee_by_id", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, identifier))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return employee, nil
}

// FindEmployeeByName returns the oldest employee with the given first and last name.
func (r *Repository) FindEmployeeByName(ctx context.Context, firstName, lastName string) (models.Employee, error) {
	defer r.observe("find_employee_by_name", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE first_name=$1 AND last_name=$2 ORDER BY id LIMIT 1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, firstName, lastName))
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to find employee by name: %w", err)
	}

	return employee, nil
}

// ListEmployees returns one page of employees ordered by id.
func (r *Repository) ListEmployees(ctx context.Context, limit, offset int) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0, limit)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to list employees: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// CountEmployees returns the total number of stored employees.
func (r *Repository) CountEmployees(ctx context.Context) (int, error) {
	defer r.observe("count_employees", time.Now())

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return total, nil
}

// DeleteEmployee removes the employee with the given id.
func (r *Repository) DeleteEmployee(ctx context.Context, identifier int64) error {
	defer r.observe("delete_employee", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete employee: %w", ErrEmployeeNotFound)
	}

	return nil
}

// scanEmployee rebuilds the entity through its validating constructors, so
// a row that breaks the entity rules surfaces as an error.
func scanEmployee(row pgx.Row) (models.Employee, error) {
	var (
		identifier  int64
		firstName   string
		lastName    string
		description string
		jobTitle    string
		jobYears    int
		email       sql.NullString
	)

	if err := row.Scan(&identifier, &firstName, &lastName, &description, &jobTitle, &jobYears, &email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, err
	}

	var (
		employee models.Employee
		err      error
	)
	if email.Valid {
		employee, err = models.NewEmployeeWithEmail(firstName, lastName, description, jobTitle, jobYears, email.String)
	} else {
		employee, err = models.NewEmployee(firstName, lastName, description, jobTitle, jobYears)
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("stored employee %d is invalid: %w", identifier, err)
	}

	return employee.WithID(identifier), nil
}

func nullableEmail(employee models.Employee) any {
	if employee.Flavor() != models.FlavorExtended {
		return nil
	}
	return employee.Email()
}
