package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/Max17190/amazon-monitor-v2/internal/client"
	"github.com/Max17190/amazon-monitor-v2/internal/config"
)

const footerTimeFormat = "2006-01-02 15:04:05"

// Message is a chat webhook execute payload.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

type Embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Thumbnail *EmbedImage  `json:"thumbnail,omitempty"`
	Fields    []EmbedField `json:"fields"`
	Footer    *EmbedFooter `json:"footer,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// BuildEmbed renders the in-stock alert for p.
func BuildEmbed(p client.ProductStatus, style config.NotifyConfig, now time.Time) Embed {
	e := Embed{
		Title: style.Title,
		Color: style.Color,
		Footer: &EmbedFooter{
			Text: fmt.Sprintf("%s | %s", style.Footer, now.Format(footerTimeFormat)),
		},
	}
	if len(p.Images) > 0 {
		e.Thumbnail = &EmbedImage{URL: p.Images[0]}
	}

	price := p.Price
	if price == "" {
		price = style.PricePlaceholder
	}

	name := p.Title
	if strings.HasPrefix(p.URL, "http") {
		name = fmt.Sprintf("[%s](%s)", p.Title, p.URL)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", name)
	fmt.Fprintf(&b, "**SKU:** %s\n", p.ASIN)
	fmt.Fprintf(&b, "**Price:** %s\n", price)
	fmt.Fprintf(&b, "**Condition:** %s\n", style.Condition)
	fmt.Fprintf(&b, "**Sold By:** %s", style.Seller)

	e.Fields = []EmbedField{{Name: "Product Details", Value: b.String(), Inline: false}}
	return e
}

// Mention formats a role mention.
func Mention(id string) string {
	return "<@&" + id + ">"
}
