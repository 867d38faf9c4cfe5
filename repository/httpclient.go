package repository

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// newHTTPClient creates the HTTP client behind a repository session. The
// harness issues one call at a time, so a single kept-alive connection is
// enough. No overall Timeout is set; transport defaults apply.
func newHTTPClient() (*http.Client, error) {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   1,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// Enable HTTP/2
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("failed to configure HTTP/2: %w", err)
	}

	return &http.Client{Transport: transport}, nil
}
