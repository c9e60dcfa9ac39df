package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Houeta/payroll/internal/models"
)

var ErrScrapeRoster = errors.New("failed to scrape roster")

func getHTMLResponse(ctx context.Context, client *http.Client, destURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, destURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", destURL, err)
	}

	req.Header.Set("User-Agent", models.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", destURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w, received status code: %d", ErrScrapeRoster, resp.StatusCode)
	}

	return resp, nil
}
