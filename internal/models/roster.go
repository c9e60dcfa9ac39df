package models

import "time"

// UserAgent is sent with every request to the roster portal.
const UserAgent = "payroll-roster-sync/1.0 (+https://github.com/Houeta/payroll)"

// RosterEntry is one raw row of the roster page before validation.
type RosterEntry struct {
	FirstName   string
	LastName    string
	Description string
	JobTitle    string
	JobYears    int
	Email       string
	// EmailColumn is set when the row carried an email cell, even a blank one.
	EmailColumn bool
}

// Employee builds the validated entity for the row. Rows from a roster with
// an email column become extended employees.
func (r RosterEntry) Employee() (Employee, error) {
	if !r.EmailColumn {
		return NewEmployee(r.FirstName, r.LastName, r.Description, r.JobTitle, r.JobYears)
	}

	return NewEmployeeWithEmail(r.FirstName, r.LastName, r.Description, r.JobTitle, r.JobYears, r.Email)
}

// SyncReport summarises one roster synchronisation run.
type SyncReport struct {
	StartedAt time.Time
	Parsed    int
	Created   int
	Updated   int
	Skipped   int
	Rejected  int
}
