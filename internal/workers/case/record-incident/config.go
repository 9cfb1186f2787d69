// internal/workers/case/record-incident/config.go
package recordincident

import "time"

type Config struct {
	Timeout time.Duration
	// DuplicateWindow bounds how far back the duplicate check looks.
	DuplicateWindow time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DuplicateWindow: 24 * time.Hour,
	}
}
