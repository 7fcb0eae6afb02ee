package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const defaultRetryAfter = time.Second

type SendResult struct {
	StatusCode int
	// RetryAfter is the server-advised delay of a 429 answer.
	RetryAfter time.Duration
	LatencyMs  int64
	Err        error
}

func (r SendResult) RateLimited() bool {
	return r.StatusCode == http.StatusTooManyRequests
}

type Sender struct {
	client *resty.Client
}

func NewSender(timeout time.Duration) *Sender {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "amznmon/1.0")
	return &Sender{client: c}
}

// Send posts msg to a webhook URL. Any non-2xx answer other than 429 is
// reported through Err.
func (s *Sender) Send(ctx context.Context, url string, msg Message) SendResult {
	start := time.Now()

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(url)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return SendResult{Err: errors.Wrap(err, "webhook request failed"), LatencyMs: latency}
	}

	res := SendResult{StatusCode: resp.StatusCode(), LatencyMs: latency}
	switch {
	case res.RateLimited():
		res.RetryAfter = retryAfter(resp.Body(), resp.Header())
	case res.StatusCode < 200 || res.StatusCode > 299:
		body := string(resp.Body())
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		res.Err = errors.Errorf("webhook returned %d: %s", res.StatusCode, body)
	}
	return res
}

// retryAfter reads the JSON retry_after field (seconds), then the Retry-After
// header, falling back to one second.
func retryAfter(body []byte, h http.Header) time.Duration {
	var payload struct {
		RetryAfter *float64 `json:"retry_after"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.RetryAfter != nil && *payload.RetryAfter >= 0 {
		return seconds(*payload.RetryAfter)
	}
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return seconds(f)
		}
	}
	return defaultRetryAfter
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
