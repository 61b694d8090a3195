// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

// Client wraps net/http with a hard timeout for calls to external
// collaborators such as the soul-verification service. The timeout bounds
// the whole exchange so a hung collaborator cannot stall a plan run.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// DoWithContext issues the request bound to ctx, so a cancelled plan run
// abandons the outbound call immediately.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}
