package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Houeta/payroll/internal/lib/logger/sl"
	"github.com/Houeta/payroll/internal/models"
)

var (
	ErrLogin        = errors.New("login failed")
	ErrLoginRetries = errors.New("failed to login after multiple retries")
)

// Credentials describe how to open a session on the roster site.
type Credentials struct {
	LoginURL string
	BaseURL  string
	Username string
	Password string
}

// Login posts the login form and expects the roster site to answer 200 OK.
// The session cookie ends up in the client's jar.
func Login(ctx context.Context, client *http.Client, creds Credentials) error {
	form := url.Values{}
	form.Set("action", "login")
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create new request %s: %w", creds.LoginURL, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", models.UserAgent)
	req.Header.Set("Referer", creds.BaseURL)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", creds.LoginURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w, status code: %d", ErrLogin, resp.StatusCode)
	}

	if _, err = io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// RetryLogin calls Login up to attempts times, waiting backoff between tries.
// It gives up early when ctx is done.
func RetryLogin(
	ctx context.Context,
	log *slog.Logger,
	httpClient *http.Client,
	creds Credentials,
	attempts int,
	backoff time.Duration,
) error {
	var err error

	attempts = max(attempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		err = Login(ctx, httpClient, creds)
		if err == nil {
			log.InfoContext(ctx, "Successfully logged in", "attempt", attempt)
			return nil
		}

		log.WarnContext(ctx, "Failed to login, retrying...", "attempt", attempt, "of", attempts, sl.Err(err))

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("login interrupted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	log.ErrorContext(ctx, ErrLoginRetries.Error(), sl.Err(err))

	return fmt.Errorf("%w: %w", ErrLoginRetries, err)
}
