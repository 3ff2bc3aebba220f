package httpclient

import (
	"net"
	"net/http"
	"time"
)

// HTTPDoer captures the subset of *http.Client the fetcher relies on.
// Tests inject fake implementations so resolution can run offline.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Timeouts bounds the two blocking phases of a request.
type Timeouts struct {
	// Connect covers dialing and the TLS handshake.
	Connect time.Duration
	// Read covers waiting for response headers. Body reads are bounded
	// separately by the caller.
	Read time.Duration
}

// New returns a client that never reuses connections: every request dials
// its own. There is no overall client timeout; the phases above bound it.
func New(t Timeouts) *http.Client {
	dialer := &net.Dialer{Timeout: t.Connect}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   t.Connect,
		ResponseHeaderTimeout: t.Read,
		DisableKeepAlives:     true,
		MaxIdleConns:          0,
	}
	return &http.Client{Transport: transport}
}
