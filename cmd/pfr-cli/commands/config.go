package commands

import (
	"os"
	"time"

	"pfstats-backend/lib/configutil"
	"pfstats-backend/lib/ratelimit"
	"pfstats-backend/lib/restyutil"
	"pfstats-backend/lib/scrapers/pfr"
	"pfstats-backend/lib/serviceutil"
)

type rateLimitConfig struct {
	MaxRequests        int `json:"max_requests"`
	WindowSeconds      int `json:"window_seconds"`
	MinIntervalSeconds int `json:"min_interval_seconds"`
}

type Config struct {
	BaseUrl   string          `json:"base_url"`
	Output    string          `json:"output"`
	RateLimit rateLimitConfig `json:"rate_limit"`
}

// config.json5 is optional, flags and defaults cover everything it can
// set.
func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read config.json5", err)
	}
	return cfg
}

func (c Config) limiter() *ratelimit.Limiter {
	rl := c.RateLimit
	if rl.MaxRequests == 0 {
		rl.MaxRequests = 10
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = 60
	}
	if rl.MinIntervalSeconds == 0 {
		rl.MinIntervalSeconds = 6
	}
	return ratelimit.NewLimiter(ratelimit.Options{
		MaxRequests: rl.MaxRequests,
		Window:      time.Duration(rl.WindowSeconds) * time.Second,
		MinInterval: time.Duration(rl.MinIntervalSeconds) * time.Second,
	})
}

func (c Config) newClient(dumpDir string) *pfr.Client {
	var dump restyutil.InstrumentOutput
	if dumpDir != "" {
		dump = restyutil.NewFilesystemOutput(dumpDir)
	}
	client, err := pfr.NewClient(pfr.ClientOptions{
		BaseUrl: c.BaseUrl,
		Limiter: c.limiter(),
		Dump:    dump,
	})
	if err != nil {
		serviceutil.Fatal("failed to create scrape client", err)
	}
	return client
}
