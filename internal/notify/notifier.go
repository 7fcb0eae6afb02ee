package notify

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/Max17190/amazon-monitor-v2/internal/client"
	"github.com/Max17190/amazon-monitor-v2/internal/config"
	"github.com/Max17190/amazon-monitor-v2/internal/ratelimit"
)

var errNotSent = errors.New("dispatch did not complete")

// Report summarises one fan-out.
type Report struct {
	// Suppressed is set when the shared cooldown was active and nothing was sent.
	Suppressed  bool
	Attempted   int
	Delivered   int
	Failed      int
	Skipped     int
	RateLimited bool
	// CooldownUntil is the end of the cooldown started by this fan-out.
	CooldownUntil time.Time
}

type Notifier struct {
	targets []config.WebhookTarget
	style   config.NotifyConfig
	sender  *Sender
	gate    *ratelimit.Gate
	log     zerolog.Logger
	now     func() time.Time
}

func New(targets []config.WebhookTarget, style config.NotifyConfig, sender *Sender, gate *ratelimit.Gate, log zerolog.Logger) *Notifier {
	return &Notifier{
		targets: append([]config.WebhookTarget(nil), targets...),
		style:   style,
		sender:  sender,
		gate:    gate,
		log:     log,
		now:     time.Now,
	}
}

// Notify sends the alert for an in-stock product to every target at once and
// returns after all sends finish. Nothing is sent while the shared cooldown is
// active. A 429 from any target starts the cooldown for all of them; other
// per-target failures are logged and do not affect the rest.
func (n *Notifier) Notify(ctx context.Context, p client.ProductStatus) Report {
	if n.gate.Limited() {
		n.log.Debug().Str("asin", p.ASIN).Time("until", n.gate.Until()).Msg("rate limited, skipping notification")
		return Report{Suppressed: true}
	}
	if len(n.targets) == 0 {
		n.log.Info().Str("asin", p.ASIN).Str("title", p.Title).Msg("in stock, no webhook targets configured")
		return Report{}
	}

	embed := BuildEmbed(p, n.style, n.now())

	var (
		report  Report
		wg      conc.WaitGroup
		results = make([]SendResult, len(n.targets))
		queued  = make([]bool, len(n.targets))
	)
	for i, t := range n.targets {
		log := n.log.With().Str("webhook", redact(t.URL)).Logger()
		if t.MentionID == "" {
			log.Error().Msg("no mention id for webhook")
			report.Skipped++
			continue
		}
		if !validURL(t.URL) {
			log.Error().Msg("malformed webhook url")
			report.Skipped++
			continue
		}

		msg := Message{Content: Mention(t.MentionID), Embeds: []Embed{embed}}
		results[i] = SendResult{Err: errNotSent}
		queued[i] = true
		wg.Go(func() {
			if err := n.gate.Wait(ctx); err != nil {
				results[i] = SendResult{Err: errors.Wrap(err, "dispatch pacing")}
				return
			}
			results[i] = n.sender.Send(ctx, t.URL, msg)
		})
		log.Debug().Str("mention", t.MentionID).Msg("queued webhook")
	}

	if r := wg.WaitAndRecover(); r != nil {
		n.log.Error().Err(r.AsError()).Msg("webhook dispatch panicked")
	}

	var retry time.Duration
	for i, res := range results {
		if !queued[i] {
			continue
		}
		report.Attempted++
		log := n.log.With().Str("webhook", redact(n.targets[i].URL)).Logger()
		switch {
		case res.RateLimited():
			report.RateLimited = true
			if res.RetryAfter > retry {
				retry = res.RetryAfter
			}
			log.Warn().Dur("retry_after", res.RetryAfter).Msg("webhook rate limited")
		case res.Err != nil:
			report.Failed++
			log.Error().Err(res.Err).Int("status_code", res.StatusCode).Msg("webhook error")
		default:
			report.Delivered++
			log.Debug().Int("status_code", res.StatusCode).Int64("latency_ms", res.LatencyMs).Msg("webhook delivered")
		}
	}

	if report.RateLimited {
		report.CooldownUntil = n.gate.Trip(retry)
		n.log.Warn().Time("until", report.CooldownUntil).Msg("pausing all notifications")
	}

	if report.Delivered == 0 {
		n.log.Warn().
			Str("asin", p.ASIN).
			Int("failed", report.Failed).
			Int("skipped", report.Skipped).
			Bool("rate_limited", report.RateLimited).
			Msg("notification not delivered")
		return report
	}
	n.log.Info().
		Str("asin", p.ASIN).
		Int("delivered", report.Delivered).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("notification sent")
	return report
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// redact keeps webhook secrets out of logs.
func redact(raw string) string {
	if len(raw) <= 15 {
		return raw
	}
	return raw[:15] + "..."
}
