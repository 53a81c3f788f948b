package config

import (
	"strconv"
	"time"
)

// DefaultPort is the port `langconv serve` listens on.
const DefaultPort = 4280

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultRateBurst is the burst used when a rate limit is set without one.
const DefaultRateBurst = 10

// DefaultBaseURL returns the API root served by a local `langconv serve`.
func DefaultBaseURL(port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return "http://localhost:" + strconv.Itoa(port) + "/api"
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Backend: BackendHTTP,
		BaseURL: DefaultBaseURL(DefaultPort),
		Timeout: DefaultTimeout,
		Languages: ResourceConfig{
			SearchParam: "searchText",
		},
		Conversions: ResourceConfig{
			SearchParam: "name",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{
			Port:      DefaultPort,
			RateBurst: DefaultRateBurst,
		},
	}
}
