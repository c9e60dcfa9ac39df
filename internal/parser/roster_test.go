package parser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Houeta/payroll/internal/metrics"
	"github.com/Houeta/payroll/internal/models"
	"github.com/Houeta/payroll/internal/parser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

const rosterPage = `
<html><body>
<table>
	<tr><th>First</th><th>Last</th><th>About</th><th>Title</th><th>Years</th><th>Email</th></tr>
	<tr data-employee>
		<td> Frodo </td><td>Baggins</td><td>ring bearer</td><td>Hobbit</td><td> 3 </td><td>f_bagins@mail.com</td>
	</tr>
	<tr data-employee>
		<td>Samwise</td><td>Gamgee</td><td>gardener</td><td>Hobbit</td><td>7</td><td></td>
	</tr>
	<tr data-employee>
		<td>Gollum</td><td>Smeagol</td><td>guide</td><td>Creature</td><td>many</td><td></td>
	</tr>
	<tr data-employee>
		<td>Broken</td><td>Row</td>
	</tr>
</table>
</body></html>`

const classicRosterPage = `
<table>
	<tr data-employee>
		<td>Bilbo</td><td>Baggins</td><td>burglar</td><td>Hobbit</td><td>60</td>
	</tr>
</table>`

func newMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func TestParseRosterFromBody(t *testing.T) {
	t.Parallel()

	metric := newMetrics()

	entries, err := parser.ParseRosterFromBody(strings.NewReader(rosterPage), metric)
	require.NoError(t, err)

	expected := []models.RosterEntry{
		{
			FirstName:   "Frodo",
			LastName:    "Baggins",
			Description: "ring bearer",
			JobTitle:    "Hobbit",
			JobYears:    3,
			Email:       "f_bagins@mail.com",
			EmailColumn: true,
		},
		{
			FirstName:   "Samwise",
			LastName:    "Gamgee",
			Description: "gardener",
			JobTitle:    "Hobbit",
			JobYears:    7,
			EmailColumn: true,
		},
	}
	assert.Equal(t, expected, entries)
	assert.InDelta(t, 2, testutil.ToFloat64(metric.ItemsParsed.WithLabelValues("parsed")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metric.ItemsParsed.WithLabelValues("malformed")), 0)
}

func TestParseRosterFromBody_WithoutEmailColumn(t *testing.T) {
	t.Parallel()

	entries, err := parser.ParseRosterFromBody(strings.NewReader(classicRosterPage), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.False(t, entries[0].EmailColumn)
	assert.Empty(t, entries[0].Email)
	assert.Equal(t, 60, entries[0].JobYears)
}

func TestParseRosterFromBody_NoRows(t *testing.T) {
	t.Parallel()

	entries, err := parser.ParseRosterFromBody(strings.NewReader("<p>nothing here</p>"), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseRoster_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, models.UserAgent, r.Header.Get("User-Agent"))

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, rosterPage)
	}))
	defer srv.Close()

	rp := parser.NewRosterParser(srv.Client(), newMetrics(), srv.URL+"/roster")

	entries, err := rp.ParseRoster(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestParseRoster_FollowsPagination(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		pages []string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pages = append(pages, r.URL.RequestURI())
		mu.Unlock()

		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprint(w, `<table><tr data-employee><td>Frodo</td><td>Baggins</td><td>ring bearer</td>
				<td>Hobbit</td><td>3</td></tr></table><a rel="next" href="?page=2">next</a>`)
		case "2":
			fmt.Fprint(w, `<table><tr data-employee><td>Bilbo</td><td>Baggins</td><td>burglar</td>
				<td>Hobbit</td><td>60</td></tr></table><a rel="next" href="/roster">again</a>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	rp := parser.NewRosterParser(srv.Client(), nil, srv.URL+"/roster")

	entries, err := rp.ParseRoster(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Frodo", entries[0].FirstName)
	assert.Equal(t, "Bilbo", entries[1].FirstName)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/roster", "/roster?page=2"}, pages)
}

func TestParseRoster_BadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	rp := parser.NewRosterParser(srv.Client(), nil, srv.URL)

	entries, err := rp.ParseRoster(context.Background())
	require.ErrorIs(t, err, parser.ErrScrapeRoster)
	assert.Contains(t, err.Error(), "received status code: 403")
	assert.Nil(t, entries)
}

func TestParseRoster_TransportError(t *testing.T) {
	t.Parallel()

	httpClient := &http.Client{Transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
		return nil, errors.New("simulated network error")
	})}

	rp := parser.NewRosterParser(httpClient, nil, "http://roster.example.com")

	_, err := rp.ParseRoster(context.Background())
	require.ErrorContains(t, err, "simulated network error")
}

func TestParseRoster_InvalidURL(t *testing.T) {
	t.Parallel()

	rp := parser.NewRosterParser(http.DefaultClient, nil, "http://invalid url")

	_, err := rp.ParseRoster(context.Background())
	require.ErrorContains(t, err, "failed to create new request")
}
