package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const maxRedirects = 10

var ErrTooManyRedirects = errors.New("too many redirects")

// CreateHTTPClient builds the client used to talk to the roster site.
// The client keeps its login session in a CookieJar.
func CreateHTTPClient(log *slog.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Jar:     NewCookieJar(log),
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, len(via))
			}

			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
