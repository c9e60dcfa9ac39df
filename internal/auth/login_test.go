package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Houeta/payroll/internal/auth"
	"github.com/Houeta/payroll/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorReader struct{}

func (er *errorReader) Read(_ []byte) (int, error) {
	return 0, errors.New("simulated read error")
}

func (er *errorReader) Close() error {
	return nil
}

// roundTripFunc imitates transport level failures.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func credentials(loginURL string) auth.Credentials {
	return auth.Credentials{
		LoginURL: loginURL,
		BaseURL:  "http://roster.example.com",
		Username: "testuser",
		Password: "testpass",
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, models.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "http://roster.example.com", r.Header.Get("Referer"))

		if !assert.NoError(t, r.ParseForm()) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "login", r.FormValue("action"))
		assert.Equal(t, "testuser", r.FormValue("username"))
		assert.Equal(t, "testpass", r.FormValue("password"))

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "welcome")
	}))
	defer srv.Close()

	err := auth.Login(context.Background(), srv.Client(), credentials(srv.URL))
	require.NoError(t, err)
}

func TestLogin_Errors(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name        string
		ctx         context.Context
		loginURL    string
		handler     http.HandlerFunc
		transport   http.RoundTripper
		wantErrIs   error
		wantContain string
	}{
		{
			name:        "invalid login url",
			ctx:         context.Background(),
			loginURL:    "http://invalid url bla bla bla",
			wantContain: "failed to create new request",
		},
		{
			name: "transport error",
			ctx:  context.Background(),
			transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("simulated network error")
			}),
			wantContain: "failed to request",
		},
		{
			name: "unauthorized",
			ctx:  context.Background(),
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErrIs:   auth.ErrLogin,
			wantContain: fmt.Sprintf("status code: %d", http.StatusUnauthorized),
		},
		{
			name: "broken body",
			ctx:  context.Background(),
			transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: &errorReader{}, Header: make(http.Header)}, nil
			}),
			wantContain: "failed to read response body: simulated read error",
		},
		{
			name: "canceled context",
			ctx:  canceled,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantErrIs:   context.Canceled,
			wantContain: "failed to request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loginURL := "http://dummy.example.com/login"
			httpClient := &http.Client{}

			if tt.handler != nil {
				srv := httptest.NewServer(tt.handler)
				t.Cleanup(srv.Close)
				loginURL = srv.URL
				httpClient = srv.Client()
			}
			if tt.loginURL != "" {
				loginURL = tt.loginURL
			}
			if tt.transport != nil {
				httpClient.Transport = tt.transport
			}

			err := auth.Login(tt.ctx, httpClient, credentials(loginURL))

			require.Error(t, err)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
			}
			assert.True(t, strings.Contains(err.Error(), tt.wantContain), "error %q should contain %q", err, tt.wantContain)
		})
	}
}

func TestRetryLogin_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := auth.RetryLogin(context.Background(), discardLogger(), srv.Client(), credentials(srv.URL), 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryLogin_GivesUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := auth.RetryLogin(context.Background(), discardLogger(), srv.Client(), credentials(srv.URL), 2, time.Millisecond)

	require.ErrorIs(t, err, auth.ErrLoginRetries)
	require.ErrorIs(t, err, auth.ErrLogin)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryLogin_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cancel()
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	start := time.Now()
	err := auth.RetryLogin(ctx, discardLogger(), srv.Client(), credentials(srv.URL), 5, time.Minute)

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)
}
