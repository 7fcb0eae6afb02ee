package client

import (
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/pkg/errors"
)

// ErrNoToken is reported when the storefront page yields no slate token.
var ErrNoToken = errors.New("slate token unavailable")

// Doer is the subset of tls_client.HttpClient the checker relies on.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ProxiedClient struct {
	tls_client.HttpClient
	ProxyURL string
}

// StatusError reports a non-2xx answer from the marketplace.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// CreateClient builds a Chrome-fingerprinted client routed through proxyURL.
// An empty proxyURL means a direct connection.
func CreateClient(proxyURL string, timeout time.Duration) (*ProxiedClient, error) {
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}

	jar := tls_client.NewCookieJar()
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(secs),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
		tls_client.WithCookieJar(jar),
	}
	if proxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(proxyURL))
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tls client")
	}
	return &ProxiedClient{HttpClient: c, ProxyURL: proxyURL}, nil
}
