package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Flavor selects which field set an Employee carries and how it is rendered.
type Flavor int

const (
	// FlavorClassic is the five-field employee without email.
	FlavorClassic Flavor = iota
	// FlavorExtended adds the email field; jobYears is rendered quoted.
	FlavorExtended
)

func (f Flavor) String() string {
	switch f {
	case FlavorClassic:
		return "classic"
	case FlavorExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// MaxJobYears is the largest tenure the employees table can hold.
const MaxJobYears = math.MaxInt32

// Employee is the payroll entity. It is an immutable value: every With*
// method validates its input and returns a new Employee, leaving the receiver
// untouched. The zero value is not a valid employee; use NewEmployee or
// NewEmployeeWithEmail.
type Employee struct {
	id          *int64
	firstName   string
	lastName    string
	description string
	jobTitle    string
	jobYears    int
	email       string
	flavor      Flavor
}

// NewEmployee builds a classic employee.
func NewEmployee(firstName, lastName, description, jobTitle string, jobYears int) (Employee, error) {
	emp := Employee{
		firstName:   firstName,
		lastName:    lastName,
		description: description,
		jobTitle:    jobTitle,
		jobYears:    jobYears,
		flavor:      FlavorClassic,
	}
	if err := emp.validate(); err != nil {
		return Employee{}, err
	}

	return emp, nil
}

// NewEmployeeWithEmail builds an extended employee.
func NewEmployeeWithEmail(
	firstName, lastName, description, jobTitle string,
	jobYears int,
	email string,
) (Employee, error) {
	emp := Employee{
		firstName:   firstName,
		lastName:    lastName,
		description: description,
		jobTitle:    jobTitle,
		jobYears:    jobYears,
		email:       email,
		flavor:      FlavorExtended,
	}
	if err := emp.validate(); err != nil {
		return Employee{}, err
	}

	return emp, nil
}

// validate is the only place the field rules live.
func (e Employee) validate() error {
	if e.firstName == "" {
		return ErrInvalidFirstName
	}
	if e.lastName == "" {
		return ErrInvalidLastName
	}
	if e.description == "" {
		return ErrInvalidDescription
	}
	if e.jobTitle == "" {
		return ErrInvalidJobTitle
	}
	if e.jobYears < 0 || e.jobYears > MaxJobYears {
		return ErrInvalidJobYears
	}
	if e.flavor == FlavorExtended && e.email == "" {
		return ErrInvalidEmail
	}

	return nil
}

// ID returns the surrogate key and whether it has been assigned.
func (e Employee) ID() (int64, bool) {
	if e.id == nil {
		return 0, false
	}

	return *e.id, true
}

// Field accessors.

func (e Employee) FirstName() string   { return e.firstName }
func (e Employee) LastName() string    { return e.lastName }
func (e Employee) Description() string { return e.description }
func (e Employee) JobTitle() string    { return e.jobTitle }
func (e Employee) JobYears() int       { return e.jobYears }
func (e Employee) Email() string       { return e.email }
func (e Employee) Flavor() Flavor      { return e.flavor }

// IsPersisted reports whether an identifier has been assigned.
func (e Employee) IsPersisted() bool {
	return e.id != nil
}

// WithID assigns the identifier. It is not validated: the persistence layer owns it.
func (e Employee) WithID(id int64) Employee {
	e.id = &id
	return e
}

// WithFirstName returns a copy with the first name replaced.
func (e Employee) WithFirstName(firstName string) (Employee, error) {
	e.firstName = firstName
	return e.checked()
}

// WithLastName returns a copy with the last name replaced.
func (e Employee) WithLastName(lastName string) (Employee, error) {
	e.lastName = lastName
	return e.checked()
}

// WithDescription returns a copy with the description replaced.
func (e Employee) WithDescription(description string) (Employee, error) {
	e.description = description
	return e.checked()
}

// WithJobTitle returns a copy with the job title replaced.
func (e Employee) WithJobTitle(jobTitle string) (Employee, error) {
	e.jobTitle = jobTitle
	return e.checked()
}

// WithJobYears returns a copy with the tenure replaced. It must lie in [0, MaxJobYears].
func (e Employee) WithJobYears(jobYears int) (Employee, error) {
	e.jobYears = jobYears
	return e.checked()
}

// WithEmail sets the email, turning a classic employee into an extended one.
func (e Employee) WithEmail(email string) (Employee, error) {
	e.email = email
	e.flavor = FlavorExtended
	return e.checked()
}

// WithoutEmail drops the email and returns the classic form.
func (e Employee) WithoutEmail() Employee {
	e.email = ""
	e.flavor = FlavorClassic
	return e
}

// checked returns e if valid, otherwise the zero Employee and the error.
func (e Employee) checked() (Employee, error) {
	if err := e.validate(); err != nil {
		return Employee{}, err
	}

	return e, nil
}

// Equal compares every field except the identifier.
func (e Employee) Equal(other Employee) bool {
	return e.firstName == other.firstName &&
		e.lastName == other.lastName &&
		e.description == other.description &&
		e.jobTitle == other.jobTitle &&
		e.jobYears == other.jobYears &&
		e.email == other.email &&
		e.flavor == other.flavor
}

// Hash is consistent with Equal. Strings are length-prefixed so that
// shifting characters between adjacent fields changes the digest.
func (e Employee) Hash() uint64 {
	digest := xxhash.New()
	buf := make([]byte, 0, 64)

	writeField := func(s string) {
		buf = strconv.AppendInt(buf[:0], int64(len(s)), 10)
		buf = append(buf, ':')
		_, _ = digest.Write(buf)
		_, _ = digest.WriteString(s)
	}

	writeField(e.firstName)
	writeField(e.lastName)
	writeField(e.description)
	writeField(e.jobTitle)
	writeField(strconv.Itoa(e.jobYears))
	writeField(e.email)
	writeField(e.flavor.String())

	return digest.Sum64()
}

// String renders the fixed textual form. The classic and extended layouts
// differ in how jobYears is quoted; both are part of the external contract.
func (e Employee) String() string {
	var b strings.Builder

	b.WriteString("Employee{id=")
	if e.id == nil {
		b.WriteString("null")
	} else {
		b.WriteString(strconv.FormatInt(*e.id, 10))
	}

	b.WriteString(", firstName='")
	b.WriteString(e.firstName)
	b.WriteString("', lastName='")
	b.WriteString(e.lastName)
	b.WriteString("', description='")
	b.WriteString(e.description)
	b.WriteString("', jobTitle='")
	b.WriteString(e.jobTitle)

	if e.flavor == FlavorExtended {
		b.WriteString("', jobYears='")
		b.WriteString(strconv.Itoa(e.jobYears))
		b.WriteString("', email='")
		b.WriteString(e.email)
		b.WriteString("'}")
		return b.String()
	}

	b.WriteString("', jobYears=")
	b.WriteString(strconv.Itoa(e.jobYears))
	b.WriteString("}")

	return b.String()
}
