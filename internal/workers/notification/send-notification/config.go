// internal/workers/notification/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	EmailEnabled     bool
	SMSEnabled       bool
	FromEmail        string
	AWSRegion        string
	TemplateRegistry string
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled:     true,
		SMSEnabled:       true,
		FromEmail:        "no-reply@rehab.example.com",
		AWSRegion:        "ap-southeast-2",
		TemplateRegistry: "configs/notification-templates.json",
		Timeout:          30 * time.Second,
	}
}
