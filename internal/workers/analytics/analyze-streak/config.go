// internal/workers/analytics/analyze-streak/config.go
package analyzestreak

import "time"

type Config struct {
	Timeout      time.Duration
	LookbackDays int
	CacheTTL     time.Duration
	// Timezone is the IANA name used to resolve day boundaries, e.g.
	// "Australia/Sydney". Empty means UTC.
	Timezone string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		LookbackDays: 90,
		CacheTTL:     5 * time.Minute,
	}
}

// Location resolves the configured timezone, falling back to UTC when the
// name is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
