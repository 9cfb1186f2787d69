// internal/workers/analytics/aggregate-trends/config.go
package aggregatetrends

import "time"

type Config struct {
	Timeout     time.Duration
	WindowWeeks int
	// Timezone is the IANA name used for week boundaries. Empty means UTC.
	Timezone string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     20 * time.Second,
		WindowWeeks: 4,
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
