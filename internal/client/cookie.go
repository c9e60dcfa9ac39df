package client

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// CookieJar keeps the roster session cookies in memory, one set per host.
// Cookies received later replace earlier ones with the same name.
type CookieJar struct {
	log     *slog.Logger
	mu      sync.Mutex
	byHosts map[string]map[string]*http.Cookie
}

func NewCookieJar(log *slog.Logger) *CookieJar {
	return &CookieJar{
		log:     log,
		byHosts: make(map[string]map[string]*http.Cookie),
	}
}

// SetCookies implements http.CookieJar.
func (c *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	host := u.Hostname()
	stored, ok := c.byHosts[host]
	if !ok {
		stored = make(map[string]*http.Cookie, len(cookies))
		c.byHosts[host] = stored
	}

	for _, cookie := range cookies {
		if cookie.MaxAge < 0 {
			delete(stored, cookie.Name)
			continue
		}
		stored[cookie.Name] = cookie
	}

	c.log.Debug("Stored session cookies", "host", host, "count", len(stored))
}

// Cookies implements http.CookieJar.
func (c *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.byHosts[u.Hostname()]
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, cookie := range stored {
		cookies = append(cookies, cookie)
	}

	return cookies
}

// Reset drops the session for the given host so the next run logs in again.
func (c *CookieJar) Reset(u *url.URL) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byHosts, u.Hostname())
}
