package recordstore

import (
	"net/http"
	"time"
)

type Option func(*Client)

func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// HTTPClient replaces the default client, mostly for tests.
func HTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}
