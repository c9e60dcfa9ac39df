package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	rosterRowSelector  = `tr[data-employee]`
	nextPageSelector   = `a[rel="next"]`
	maxRosterPages     = 50
	rosterCellsPerRow  = 5
	resultParsed       = "parsed"
	resultMalformedRow = "malformed"
)

type RosterParserIface interface {
	ParseRoster(ctx context.Context) ([]models.RosterEntry, error)
}

// RosterParser scrapes the HR roster pages. Rows look like
//
//	<tr data-employee>
//	  <td>first</td><td>last</td><td>description</td><td>job title</td><td>years</td><td>email</td>
//	</tr>
//
// where the email cell is optional. Pages are chained with a rel="next" link.
type RosterParser struct {
	client  *http.Client
	destURL string
	metrics *metrics.Metrics
}

func NewRosterParser(client *http.Client, metrics *metrics.Metrics, destURL string) *RosterParser {
	return &RosterParser{client: client, destURL: destURL, metrics: metrics}
}

// ParseRoster walks every roster page starting at the configured URL.
func (rp *RosterParser) ParseRoster(ctx context.Context) ([]models.RosterEntry, error) {
	var entries []models.RosterEntry

	pageURL := rp.destURL
	visited := make(map[string]struct{})

	for range maxRosterPages {
		if _, seen := visited[pageURL]; seen {
			break
		}
		visited[pageURL] = struct{}{}

		page, next, err := rp.parsePage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse roster page %s: %w", pageURL, err)
		}

		entries = append(entries, page...)

		if next == "" {
			break
		}
		pageURL = next
	}

	return entries, nil
}

func (rp *RosterParser) parsePage(ctx context.Context, pageURL string) ([]models.RosterEntry, string, error) {
	resp, err := getHTMLResponse(ctx, rp.client, pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get html response: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid roster url %s: %w", pageURL, err)
	}
	if resp.Request != nil {
		base = resp.Request.URL
	}

	next, err := resolveNextPage(base, doc)
	if err != nil {
		return nil, "", err
	}

	return parseRosterDocument(doc, rp.metrics), next, nil
}

// ParseRosterFromBody extracts roster entries from a single HTML page.
// Rows with too few cells or a non-numeric years cell are skipped.
func ParseRosterFromBody(in io.Reader, metric *metrics.Metrics) ([]models.RosterEntry, error) {
	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	return parseRosterDocument(doc, metric), nil
}

func parseRosterDocument(doc *goquery.Document, metric *metrics.Metrics) []models.RosterEntry {
	var entries []models.RosterEntry

	doc.Find(rosterRowSelector).Each(func(_ int, row *goquery.Selection) {
		entry, ok := parseRosterRow(row)
		if !ok {
			countRow(metric, resultMalformedRow)
			return
		}

		entries = append(entries, entry)
		countRow(metric, resultParsed)
	})

	return entries
}

func parseRosterRow(row *goquery.Selection) (models.RosterEntry, bool) {
	cells := row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
		return strings.TrimSpace(cell.Text())
	})
	if len(cells) < rosterCellsPerRow {
		return models.RosterEntry{}, false
	}

	years, err := strconv.Atoi(cells[4])
	if err != nil {
		return models.RosterEntry{}, false
	}

	entry := models.RosterEntry{
		FirstName:   cells[0],
		LastName:    cells[1],
		Description: cells[2],
		JobTitle:    cells[3],
		JobYears:    years,
	}
	if len(cells) > rosterCellsPerRow {
		entry.Email = cells[5]
		entry.EmailColumn = true
	}

	return entry, true
}

func resolveNextPage(base *url.URL, doc *goquery.Document) (string, error) {
	href, ok := doc.Find(nextPageSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", nil
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid next page link %q: %w", href, err)
	}

	return base.ResolveReference(ref).String(), nil
}

func countRow(metric *metrics.Metrics, result string) {
	if metric == nil {
		return
	}
	metric.ItemsParsed.WithLabelValues(result).Inc()
}
