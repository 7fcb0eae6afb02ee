package config

import (
	"time"

	"github.com/spf13/viper"
)

var (
	rtx5080 = []string{
		"B0DTPG3B1N", "B0DSWP51N3", "B0DSXKZ2T9", "B0DTJFZ4YS", "B0DSX9Y24P",
		"B0DSXGNFJL", "B0DSXNXTSS", "B0DQSD7YQC", "B0DT7JVPVH", "B0DSWQNGYF",
		"B0DT7FT1P5", "B0DTJDR3V9", "B0DT7H5JYL", "B0DQSLHSP2", "B0DS2R6948",
		"B0DTZ441G7", "B0DTZ48TCY", "B0DSWRLSD4", "B0DQSMMCSH", "B0DT7HKND2",
		"B0DSXH2P3L", "B0DSXJ5QF4", "B0DT7HVT16", "B0DS2R7N4F", "B0DSWR8WMB",
	}

	rtx5090 = []string{
		"B0DT7L98J1", "B0DTJFSSZG", "B0DTJF8YT4", "B0DS2WQZ2M",
		"B0DT7JS6BG", "B0DT7GHQMD", "B0DT7L992Z", "B0DT7GBNWQ",
		"B0DT7GMXHB", "B0DT7KGND2", "B0DT7K9VV3", "B0DS2Z8854",
		"B0DS2X3T6P", "B0DS2X13PH",
	}
)

func DefaultWatchlists() []Watchlist {
	return []Watchlist{
		{Name: "RTX5080", IDs: append([]string(nil), rtx5080...)},
		{Name: "RTX5090", IDs: append([]string(nil), rtx5090...)},
	}
}

func setDefaults(v *viper.Viper) {
	// Empty proxy defaults register the keys so AMZNMON_PROXY_* reach Unmarshal.
	v.SetDefault("proxy.host", "")
	v.SetDefault("proxy.port", "")
	v.SetDefault("proxy.user", "")
	v.SetDefault("proxy.pass", "")

	v.SetDefault("marketplace.token_url", "https://www.amazon.com/stores/page/41041283-2CBB-46FE-87F5-F6E50C884DA8")
	v.SetDefault("marketplace.stock_url", "https://www.amazon.com/juvec")
	v.SetDefault("marketplace.base_url", "https://www.amazon.com")
	v.SetDefault("marketplace.marketplace_id", "ATVPDKIKX0DER")
	v.SetDefault("marketplace.merchant_id", "ATVPDKIKX0DER")
	v.SetDefault("marketplace.language", "en-US")
	v.SetDefault("marketplace.currency", "USD")
	v.SetDefault("marketplace.api_endpoint", "data.amazon.com")
	v.SetDefault("marketplace.timeout", 5*time.Second)

	v.SetDefault("poll.min_interval", 1*time.Second)
	v.SetDefault("poll.max_interval", 2*time.Second)
	v.SetDefault("poll.batch_gap_min", 1*time.Second)
	v.SetDefault("poll.batch_gap_max", 2*time.Second)
	v.SetDefault("poll.error_backoff", 5*time.Second)

	v.SetDefault("notify.title", "Blink Monitor")
	v.SetDefault("notify.footer", "Blink FNF")
	v.SetDefault("notify.color", 0x9B59B6)
	v.SetDefault("notify.condition", "New")
	v.SetDefault("notify.seller", "Amazon.com")
	v.SetDefault("notify.price_placeholder", "MSRP")
	v.SetDefault("notify.cooldown_margin", 1*time.Second)
	v.SetDefault("notify.rate", 5.0)
	v.SetDefault("notify.burst", 5)
	v.SetDefault("notify.timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("watchlists", []map[string]any{
		{"name": "RTX5080", "ids": rtx5080},
		{"name": "RTX5090", "ids": rtx5090},
	})
}
