package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/Houeta/payroll/internal/auth"
	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/Houeta/payroll/internal/models"
	"github.com/Houeta/payroll/internal/repository"
)

const (
	syncTimeout   = 2 * time.Minute
	loginAttempts = 3
	loginBackoff  = 5 * time.Second
	runType       = "roster"
)

// Start logs in to the roster portal when a login URL is set, catches up if the last successful sync
// is older than interval and then syncs on every tick until ctx is done.
func (s *Staff) Start(ctx context.Context, httpClient *http.Client, creds auth.Credentials, interval time.Duration) error {
	const opn = "Staff.Start"
	log := s.initLogger(opn)

	if s.roster == nil {
		return ErrRosterDisabled
	}

	// 1. Login
	if creds.LoginURL != "" {
		log.InfoContext(ctx, "Attempting login...")
		if err := auth.RetryLogin(ctx, log, httpClient, creds, loginAttempts, loginBackoff); err != nil {
			return fmt.Errorf("failed to login: %w", err)
		}
	}

	// 2. Catch-up mode
	if s.syncDue(ctx, log, interval) {
		log.InfoContext(ctx, "Starting catch-up sync")
		if _, err := s.SyncRoster(ctx); err != nil {
			return fmt.Errorf("failed during catch-up process: %w", err)
		}
	}

	// 3. Maintenance mode
	log.InfoContext(ctx, "Switching to maintenance mode.", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.InfoContext(ctx, "Periodic sync triggered.")
			if _, err := s.SyncRoster(ctx); err != nil {
				log.ErrorContext(ctx, "Periodic sync failed", sl.Err(err))
			}
		case <-ctx.Done():
			log.InfoContext(ctx, "Service shutting down.")
			return nil
		}
	}
}

func (s *Staff) syncDue(ctx context.Context, log *slog.Logger, interval time.Duration) bool {
	lastSync, err := s.statusRepo.GetLastSyncedAt(ctx)
	if err != nil {
		log.WarnContext(ctx, "No previous roster sync found", sl.Err(err))
		return true
	}

	if time.Since(lastSync) < interval {
		log.InfoContext(ctx, "Roster is up to date, skipping catch-up", "last_sync", lastSync.Format(time.RFC3339))
		return false
	}

	return true
}

// SyncRoster imports the roster once. New names are saved, changed ones are
// updated and identical ones are left alone. Rows that fail validation are
// counted as rejected and do not stop the run.
func (s *Staff) SyncRoster(pctx context.Context) (models.SyncReport, error) {
	const opn = "Staff.SyncRoster"
	log := s.initLogger(opn)

	if s.roster == nil {
		return models.SyncReport{}, ErrRosterDisabled
	}

	ctx, cancel := context.WithTimeout(pctx, syncTimeout)
	defer cancel()

	report := models.SyncReport{StartedAt: time.Now()}

	err := s.syncRoster(ctx, log, &report)
	if err != nil {
		s.metrics.Runs.WithLabelValues("failure").Inc()
		log.ErrorContext(ctx, "Roster sync failed", sl.Err(err))

		return report, err
	}

	s.metrics.Runs.WithLabelValues("success").Inc()
	s.metrics.LastSuccessfulRun.WithLabelValues(runType).SetToCurrentTime()
	s.metrics.RunDuration.WithLabelValues(runType).Observe(time.Since(report.StartedAt).Seconds())

	log.InfoContext(ctx, "Roster sync finished",
		"parsed", report.Parsed,
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"rejected", report.Rejected,
	)

	return report, nil
}

func (s *Staff) syncRoster(ctx context.Context, log *slog.Logger, report *models.SyncReport) error {
	entries, err := s.roster.ParseRoster(ctx)
	if err != nil {
		return fmt.Errorf("failed to parse roster: %w", err)
	}
	report.Parsed = len(entries)

	for _, entry := range entries {
		existing, found, lookupErr := s.lookup(ctx, entry.FirstName, entry.LastName)
		if lookupErr != nil {
			return lookupErr
		}

		entry = s.fixEmail(ctx, log, entry, existing)

		employee, validErr := entry.Employee()
		if validErr != nil {
			report.Rejected++
			s.metrics.ItemsParsed.WithLabelValues("rejected").Inc()
			log.WarnContext(ctx, "Roster row rejected",
				"first_name", entry.FirstName, "last_name", entry.LastName, sl.Err(validErr))
			continue
		}

		switch {
		case !found:
			saved, saveErr := s.repo.SaveEmployee(ctx, employee)
			if saveErr != nil {
				return fmt.Errorf("failed to save new employee %s %s: %w", entry.FirstName, entry.LastName, saveErr)
			}
			report.Created++
			log.DebugContext(ctx, "Employee created from roster", sl.Employee(saved))
		case existing.Equal(employee):
			report.Skipped++
			log.DebugContext(ctx, "Employee unchanged, skipped", sl.Employee(existing))
		default:
			identifier, _ := existing.ID()
			if updateErr := s.repo.UpdateEmployee(ctx, employee.WithID(identifier)); updateErr != nil {
				return fmt.Errorf("failed to update employee %d: %w", identifier, updateErr)
			}
			report.Updated++
			log.DebugContext(ctx, "Employee updated from roster", sl.Employee(employee.WithID(identifier)))
		}
	}

	if err = s.statusRepo.SaveLastSyncedAt(ctx, report.StartedAt); err != nil {
		return fmt.Errorf("failed to save roster sync status: %w", err)
	}

	return nil
}

func (s *Staff) lookup(ctx context.Context, firstName, lastName string) (models.Employee, bool, error) {
	existing, err := s.repo.FindEmployeeByName(ctx, firstName, lastName)
	if errors.Is(err, repository.ErrEmployeeNotFound) {
		return models.Employee{}, false, nil
	}
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to look up %s %s: %w", firstName, lastName, err)
	}

	return existing, true, nil
}

// fixEmail replaces a blank or malformed email cell. A stored email is kept
// when there is one, otherwise a random placeholder is generated.
func (s *Staff) fixEmail(
	ctx context.Context,
	log *slog.Logger,
	entry models.RosterEntry,
	existing models.Employee,
) models.RosterEntry {
	if !entry.EmailColumn || isValidEmail(entry.Email) {
		return entry
	}

	if stored := existing.Email(); stored != "" {
		entry.Email = stored
	} else {
		entry.Email = s.newEmail()
	}

	s.metrics.EmailsFixed.Inc()
	log.DebugContext(ctx, "Roster email missing or invalid, replaced",
		"first_name", entry.FirstName, "last_name", entry.LastName, "email", entry.Email)

	return entry
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
