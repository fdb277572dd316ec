package rabbitmq

import (
	"fmt"
	"net/url"
	"strings"
)

// sanitizeURL trims quotes and whitespace that often leak in from env files
// and ensures a trailing slash for the default vhost.
func sanitizeURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if clean == "" {
		return "", fmt.Errorf("AMQP URL is empty")
	}
	parsed, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
		return "", fmt.Errorf("invalid AMQP scheme: %s", parsed.Scheme)
	}
	if parsed.Path == "" {
		clean += "/"
	}
	return clean, nil
}

// redact hides credentials when the URL is logged.
func redact(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "amqp://***"
	}
	return parsed.Redacted()
}
