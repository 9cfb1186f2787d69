// internal/workers/reporting/build-report/config.go
package buildreport

import "time"

type Config struct {
	// TemplateRegistry is the path to the JSON report template registry.
	TemplateRegistry string
	CacheTTL         time.Duration
	AppVersion       string
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TemplateRegistry: "configs/report-templates.json",
		CacheTTL:         5 * time.Minute,
		AppVersion:       "1.0.0",
		Timeout:          30 * time.Second,
	}
}
