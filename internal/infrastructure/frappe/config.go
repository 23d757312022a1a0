// Package frappe implements the sales gateway against a Frappe/ERPNext site over its REST API.
package frappe

import (
	"errors"
	"strings"
	"time"
)

// maxResponseSize limits the response body size
const maxResponseSize = 10 * 1024 * 1024

// Errors for site configuration
var (
	ErrConfigMissingBaseURL   = errors.New("frappe: base url is required")
	ErrConfigMissingAPIKey    = errors.New("frappe: api key is required")
	ErrConfigMissingAPISecret = errors.New("frappe: api secret is required")
)

// Config holds the connection settings of one Frappe site
type Config struct {
	// BaseURL is the site root, e.g. https://erp.example.com
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// NewConfig creates a site configuration with a 30s timeout
func NewConfig(baseURL, apiKey, apiSecret string) *Config {
	return &Config{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Timeout:   30 * time.Second,
	}
}

// Validate validates the site configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.APISecret == "" {
		return ErrConfigMissingAPISecret
	}
	return nil
}

// AuthorizationHeader returns the token auth header value
func (c *Config) AuthorizationHeader() string {
	return "token " + c.APIKey + ":" + c.APISecret
}

func (c *Config) baseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}
