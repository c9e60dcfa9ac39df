package client_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Houeta/payroll/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHTTPClient_Properties(t *testing.T) {
	t.Parallel()

	httpClient := client.CreateHTTPClient(discardLogger(), 15*time.Second)

	assert.NotNil(t, httpClient.Jar)
	assert.NotNil(t, httpClient.CheckRedirect)
	assert.Equal(t, 15*time.Second, httpClient.Timeout)
}

func TestCreateHTTPClient_FollowsRedirectAndKeepsSession(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s3cr3t", Path: "/"})
			http.Redirect(w, r, "/roster", http.StatusFound)
		case "/roster":
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "s3cr3t" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	httpClient := client.CreateHTTPClient(logger, time.Second)

	resp, err := httpClient.Get(srv.URL + "/login")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/roster", resp.Request.URL.Path)
	assert.Contains(t, logBuf.String(), "Redirected to URL")
	assert.Contains(t, logBuf.String(), "URL="+srv.URL+"/roster")
}

func TestCreateHTTPClient_RedirectLoop(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	httpClient := client.CreateHTTPClient(discardLogger(), time.Second)

	resp, err := httpClient.Get(srv.URL + "/loop")
	if resp != nil {
		resp.Body.Close()
	}

	require.ErrorIs(t, err, client.ErrTooManyRedirects)
}
