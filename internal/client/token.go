package client

import (
	"context"
	"io"
	"regexp"

	http "github.com/bogdanfinn/fhttp"
	"github.com/pkg/errors"

	"github.com/Max17190/amazon-monitor-v2/internal/headers"
)

var slateTokenPattern = regexp.MustCompile(`"slateToken"\s*:\s*"([^"]+)"`)

// ExtractSlateToken finds the first "slateToken":"<value>" pair in body.
func ExtractSlateToken(body []byte) (string, bool) {
	m := slateTokenPattern.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// SlateToken scrapes the storefront page for a session token. Every failure is
// logged and reported as ok=false; it never aborts the caller.
func (c *Client) SlateToken(ctx context.Context) (string, bool) {
	token, err := c.fetchSlateToken(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to get slate token")
		return "", false
	}
	return token, true
}

func (c *Client) fetchSlateToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.TokenURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build token request")
	}
	req.Header = headers.Page()

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "token request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, URL: c.cfg.TokenURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read token page")
	}

	token, ok := ExtractSlateToken(body)
	if !ok {
		return "", ErrNoToken
	}
	return token, nil
}
