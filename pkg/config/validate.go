package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate reports every invalid field in one joined error.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendHTTP, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("backend %q must be %q or %q", c.Backend, BackendHTTP, BackendMemory))
	}

	if c.Backend == BackendHTTP {
		for _, endpoint := range []struct{ name, raw string }{
			{"languages", c.LanguagesURL()},
			{"conversions", c.ConversionsURL()},
		} {
			if err := validateURL(endpoint.raw); err != nil {
				errs = append(errs, fmt.Errorf("%s url: %w", endpoint.name, err))
			}
		}
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s cannot be negative", c.Timeout))
	}
	if c.Languages.SearchParam == "" || c.Conversions.SearchParam == "" {
		errs = append(errs, errors.New("searchParam cannot be empty"))
	}
	if !validLevels[strings.ToLower(strings.TrimSpace(c.Log.Level))] {
		errs = append(errs, fmt.Errorf("log level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if f := strings.ToLower(strings.TrimSpace(c.Log.Format)); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Log.Format))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rateLimit %v cannot be negative", c.Server.RateLimit))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("rateBurst %d must be at least 1", c.Server.RateBurst))
	}

	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
