package config

import (
	"strings"
	"time"
)

// Backend selects where resource clients send requests.
const (
	// BackendHTTP talks to a remote server over the network.
	BackendHTTP = "http"
	// BackendMemory serves every request from an in-process mock backend.
	BackendMemory = "memory"
)

// Config is the complete langconv configuration.
type Config struct {
	// Backend is BackendHTTP or BackendMemory.
	Backend string `yaml:"backend" env:"BACKEND"`
	// BaseURL is the API root; each resource lives at BaseURL/<plural>.
	BaseURL string `yaml:"baseUrl" env:"BASE_URL"`
	// Timeout bounds every HTTP request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// Retries is the number of extra attempts after a connection failure.
	Retries uint64 `yaml:"retries" env:"RETRIES"`

	Languages   ResourceConfig `yaml:"languages" envPrefix:"LANGUAGES_"`
	Conversions ResourceConfig `yaml:"conversions" envPrefix:"CONVERSIONS_"`
	Log         LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Server      ServerConfig   `yaml:"server" envPrefix:"SERVER_"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// ResourceConfig locates one resource collection.
type ResourceConfig struct {
	// URL overrides BaseURL/<plural>.
	URL string `yaml:"url" env:"URL"`
	// SearchParam is the query parameter carrying search terms.
	SearchParam string `yaml:"searchParam" env:"SEARCH_PARAM"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// ServerConfig configures `langconv serve`.
type ServerConfig struct {
	Port      int     `yaml:"port" env:"PORT"`
	SeedFile  string  `yaml:"seedFile" env:"SEED_FILE"`
	RateLimit float64 `yaml:"rateLimit" env:"RATE_LIMIT"`
	RateBurst int     `yaml:"rateBurst" env:"RATE_BURST"`
}

// URLFor returns the endpoint of the collection named plural.
func (c *Config) URLFor(r ResourceConfig, plural string) string {
	if r.URL != "" {
		return strings.TrimRight(r.URL, "/")
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + plural
}

// LanguagesURL returns the languages endpoint.
func (c *Config) LanguagesURL() string {
	return c.URLFor(c.Languages, "languages")
}

// ConversionsURL returns the conversions endpoint.
func (c *Config) ConversionsURL() string {
	return c.URLFor(c.Conversions, "conversions")
}
