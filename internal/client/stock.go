package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Max17190/amazon-monitor-v2/internal/config"
	"github.com/Max17190/amazon-monitor-v2/internal/headers"
)

// MaxBatch is the largest identifier list the stock endpoint accepts.
const MaxBatch = 25

type Client struct {
	http Doer
	cfg  config.MarketplaceConfig
	log  zerolog.Logger
}

func New(doer Doer, cfg config.MarketplaceConfig, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{http: doer, cfg: cfg, log: log}
}

type requestContext struct {
	ObfuscatedMarketplaceID string `json:"obfuscatedMarketplaceId"`
	ObfuscatedMerchantID    string `json:"obfuscatedMerchantId"`
	Language                string `json:"language"`
	SessionID               string `json:"sessionId"`
	Currency                string `json:"currency"`
	AmazonAPIAjaxEndpoint   string `json:"amazonApiAjaxEndpoint"`
	SlateToken              string `json:"slateToken"`
}

type stockRequest struct {
	RequestContext    requestContext `json:"requestContext"`
	Content           stockContent   `json:"content"`
	IncludeOutOfStock bool           `json:"includeOutOfStock"`
	Endpoint          string         `json:"endpoint"`
	ASINList          []string       `json:"ASINList"`
}

type stockContent struct {
	IncludeOutOfStock bool `json:"includeOutOfStock"`
}

func sessionID() string {
	return fmt.Sprintf("%d-%d-%d",
		100+rand.Intn(900),
		1_000_000+rand.Intn(9_000_000),
		1_000_000+rand.Intn(9_000_000),
	)
}

// CheckStock asks the marketplace for the availability of up to MaxBatch
// identifiers. A transport failure or non-2xx status is returned as an error;
// an unparseable body yields an empty, non-nil slice and no error.
func (c *Client) CheckStock(ctx context.Context, asins []string) ([]ProductStatus, error) {
	if len(asins) > MaxBatch {
		c.log.Warn().
			Int("requested", len(asins)).
			Int("max", MaxBatch).
			Msg("too many identifiers per request, truncating list")
		asins = asins[:MaxBatch]
	}

	token, ok := c.SlateToken(ctx)
	if !ok {
		c.log.Warn().Msg("checking stock without slate token")
	}

	payload, err := json.Marshal(stockRequest{
		RequestContext: requestContext{
			ObfuscatedMarketplaceID: c.cfg.MarketplaceID,
			ObfuscatedMerchantID:    c.cfg.MerchantID,
			Language:                c.cfg.Language,
			SessionID:               sessionID(),
			Currency:                c.cfg.Currency,
			AmazonAPIAjaxEndpoint:   c.cfg.APIEndpoint,
			SlateToken:              token,
		},
		Content:           stockContent{IncludeOutOfStock: false},
		IncludeOutOfStock: true,
		Endpoint:          "ajax-data",
		ASINList:          asins,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode stock request")
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		c.log.Error().Err(err).Int("asins", len(asins)).Msg("stock request failed")
		return nil, err
	}

	products, err := ParseProducts(body, c.cfg.BaseURL)
	if err != nil {
		sample := string(body)
		if len(sample) > 200 {
			sample = sample[:200] + "..."
		}
		c.log.Error().Err(err).Str("sample", sample).Msg("failed to parse stock response")
		return []ProductStatus{}, nil
	}

	for _, p := range products {
		if p.InStock {
			c.log.Info().Str("asin", p.ASIN).Msg("in-stock")
		} else {
			c.log.Info().Str("asin", p.ASIN).Msg("OOS")
		}
	}
	return products, nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.StockURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build stock request")
	}
	req.Header = headers.API(c.cfg.BaseURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send stock request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: c.cfg.StockURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stock response")
	}
	return body, nil
}
