package nhsp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
)

var ErrCredentialMissing = fmt.Errorf("no credential has been captured for this session")

// CredentialCell holds the bearer token stolen off the portal's own
// API traffic. The browser's interception callback is the single
// writer; poll cycles read at cycle start. Last observed value wins.
type CredentialCell struct {
	endpoint string

	mu    sync.Mutex
	value string
	set   bool
	ready chan struct{}
}

func NewCredentialCell(endpoint string) *CredentialCell {
	return &CredentialCell{
		endpoint: endpoint,
		ready:    make(chan struct{}),
	}
}

// Observe records the Authorization header of a request whose URL
// exactly matches the credential-bearing endpoint. Non-matching
// requests are ignored.
func (c *CredentialCell) Observe(url, authorization string) {
	if url != c.endpoint || authorization == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = authorization
	if !c.set {
		c.set = true
		close(c.ready)
	}
}

func (c *CredentialCell) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.set
}

// Wait blocks until the first credential has been observed, the
// timeout elapses, or ctx is cancelled. The login UI changing
// underneath us would otherwise hang bootstrap forever.
func (c *CredentialCell) Wait(ctx context.Context, timeout time.Duration) (string, error) {
	select {
	case <-c.ready:
		value, _ := c.Get()
		return value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(timeout):
		return "", fmt.Errorf("no credential observed within %s, the portal may have stopped calling %s", timeout, c.endpoint)
	}
}

// AuthorizationHeader pulls the Authorization value out of a CDP
// header map, which does not normalize key casing.
func AuthorizationHeader(headers network.Headers) string {
	for key, value := range headers {
		if !strings.EqualFold(key, "Authorization") {
			continue
		}
		s, ok := value.(string)
		if !ok {
			return ""
		}
		return s
	}
	return ""
}

// handleRequestPaused observes one intercepted request and then
// releases it. Interception is observational only: every request,
// matched or not, must continue unmodified.
func handleRequestPaused(cell *CredentialCell, ev *fetch.EventRequestPaused, cont func(fetch.RequestID) error) {
	cell.Observe(ev.Request.URL, AuthorizationHeader(ev.Request.Headers))
	if err := cont(ev.RequestID); err != nil {
		slog.Debug("continue intercepted request", "request_id", ev.RequestID, "err", err)
	}
}
