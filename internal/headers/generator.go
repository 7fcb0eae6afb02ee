package headers

import (
	"math/rand"
	"strings"

	http "github.com/bogdanfinn/fhttp"
)

var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 5.1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 5.1; rv:109.0) Gecko/20100101 Firefox/115.0",
		"Mozilla/5.0 (Windows NT 5.1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 5.1; rv:78.0) Gecko/20100101 Firefox/78.0 Mypal/68.14.5",
		"Mozilla/5.0 (Windows NT 5.1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 5.1; rv:102.0) Gecko/20100101 Goanna/4.0 Firefox/102.0 Basilisk/20231124",
		"Mozilla/5.0 (Windows NT 5.1; rv:88.0) Gecko/20100101 Firefox/88.0",
		"Mozilla/5.0 (Windows NT 5.1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.111 Safari/537.36",
		"Mozilla/5.0 (Windows NT 5.1; rv:6.7) Goanna/6.7 PaleMoon/33.2",
		"Mozilla/5.0 (Windows NT 5.1; rv:68.9.0) Gecko/20100101 Goanna/4.8 Firefox/68.9.0 Basilisk/52.9.0",
	}

	pageOrder = []string{
		"User-Agent",
		"Accept",
		"Accept-Language",
	}

	apiOrder = []string{
		"User-Agent",
		"Accept",
		"Accept-Language",
		"Content-Type",
		"Origin",
		"Referer",
	}
)

const acceptLanguage = "en-US,en;q=0.9"

// UserAgents returns a copy of the rotation list.
func UserAgents() []string {
	return append([]string(nil), userAgents...)
}

func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Page builds headers for a storefront page fetch. Only the User-Agent varies.
func Page() http.Header {
	h := http.Header{}
	h.Set("User-Agent", RandomUserAgent())
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", acceptLanguage)
	h[http.HeaderOrderKey] = pageOrder
	return h
}

// API builds headers for the JSON stock endpoint served from origin.
func API(origin string) http.Header {
	origin = strings.TrimRight(origin, "/")

	h := http.Header{}
	h.Set("User-Agent", RandomUserAgent())
	h.Set("Accept", "application/json")
	h.Set("Accept-Language", acceptLanguage)
	h.Set("Content-Type", "application/json")
	h.Set("Origin", origin)
	h.Set("Referer", origin+"/")
	h[http.HeaderOrderKey] = apiOrder
	return h
}
