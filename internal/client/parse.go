package client

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Placeholder fills string fields the response did not carry.
const Placeholder = "N/A"

// ProductStatus is the availability of one product as seen in a single check.
type ProductStatus struct {
	ASIN    string   `json:"asin"`
	Title   string   `json:"title"`
	URL     string   `json:"url"`
	Images  []string `json:"images"`
	InStock bool     `json:"in_stock"`
	Price   string   `json:"price,omitempty"`
}

type stockResponse struct {
	Products []json.RawMessage `json:"products"`
}

type rawProduct struct {
	ASIN          json.RawMessage `json:"asin"`
	Title         json.RawMessage `json:"title"`
	DetailPage    json.RawMessage `json:"detailPageLinkURL"`
	ProductImages json.RawMessage `json:"productImages"`
	BuyingOptions json.RawMessage `json:"buyingOptions"`
}

type rawImage struct {
	HiRes json.RawMessage `json:"hiRes"`
}

type rawBuyingOption struct {
	Availability json.RawMessage `json:"availability"`
	Price        json.RawMessage `json:"price"`
}

// ParseProducts maps a stock response onto one ProductStatus per entry of its
// products array, in order. Entries of an unexpected shape are kept with
// placeholder values. Only a body that is not a JSON object with an array of
// products is an error.
func ParseProducts(body []byte, baseURL string) ([]ProductStatus, error) {
	var resp stockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "invalid stock response")
	}

	out := make([]ProductStatus, 0, len(resp.Products))
	for _, raw := range resp.Products {
		out = append(out, parseProduct(raw, baseURL))
	}
	return out, nil
}

func parseProduct(raw json.RawMessage, baseURL string) ProductStatus {
	p := ProductStatus{
		ASIN:   Placeholder,
		Title:  Placeholder,
		URL:    Placeholder,
		Images: []string{},
	}

	var rp rawProduct
	if !decode(raw, &rp) {
		return p
	}

	if s, ok := stringValue(rp.ASIN); ok && s != "" {
		p.ASIN = s
	}
	if s, ok := displayString(rp.Title); ok && s != "" {
		p.Title = s
	}
	if s, ok := stringValue(rp.DetailPage); ok && s != "" {
		p.URL = strings.TrimRight(baseURL, "/") + s
	}
	p.Images = imageURLs(rp.ProductImages)

	var options []json.RawMessage
	if decode(rp.BuyingOptions, &options) {
		for i, o := range options {
			var opt rawBuyingOption
			if !decode(o, &opt) {
				continue
			}
			var avail struct {
				Type string `json:"type"`
			}
			if decode(opt.Availability, &avail) && avail.Type == "IN_STOCK" {
				p.InStock = true
			}
			if i == 0 {
				if s, ok := displayString(opt.Price); ok {
					p.Price = s
				}
			}
		}
	}
	return p
}

func imageURLs(raw json.RawMessage) []string {
	urls := []string{}

	var container struct {
		Images []json.RawMessage `json:"images"`
	}
	if !decode(raw, &container) {
		return urls
	}
	for _, img := range container.Images {
		var ri rawImage
		if !decode(img, &ri) {
			continue
		}
		var hiRes struct {
			URL json.RawMessage `json:"url"`
		}
		if !decode(ri.HiRes, &hiRes) {
			continue
		}
		if u, ok := stringValue(hiRes.URL); ok && u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// displayString accepts either a plain string or an object carrying displayString.
func displayString(raw json.RawMessage) (string, bool) {
	if s, ok := stringValue(raw); ok {
		return s, true
	}
	var obj struct {
		DisplayString json.RawMessage `json:"displayString"`
	}
	if !decode(raw, &obj) {
		return "", false
	}
	return stringValue(obj.DisplayString)
}

func stringValue(raw json.RawMessage) (string, bool) {
	var s string
	if !decode(raw, &s) {
		return "", false
	}
	return s, true
}

// decode reports whether raw held a non-null value of v's shape.
func decode(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
