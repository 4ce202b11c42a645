// Membersync - Community Member to CMS Collection Sync
// Copyright 2026 Syncfold
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/syncfold/membersync

package config

import (
	"fmt"
	"net/url"
)

// Validate checks that required configuration is present and valid.
// Error messages name the environment variable that fixes the problem.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateDestination(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	if c.Source.URL == "" {
		return fmt.Errorf("SOURCE_API_URL is required")
	}
	if err := validateHTTPURL(c.Source.URL, "SOURCE_API_URL"); err != nil {
		return err
	}
	if c.Source.APIToken == "" {
		return fmt.Errorf("SOURCE_API_TOKEN is required")
	}
	if c.Source.PageSize <= 0 {
		return fmt.Errorf("SOURCE_PAGE_SIZE must be positive, got: %d", c.Source.PageSize)
	}
	if c.Source.PageDelay < 0 {
		return fmt.Errorf("SOURCE_PAGE_DELAY must not be negative, got: %s", c.Source.PageDelay)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive, got: %s", c.Source.Timeout)
	}
	return nil
}

func (c *Config) validateDestination() error {
	if c.Destination.URL == "" {
		return fmt.Errorf("DEST_API_URL is required")
	}
	if err := validateHTTPURL(c.Destination.URL, "DEST_API_URL"); err != nil {
		return err
	}
	if c.Destination.APIToken == "" {
		return fmt.Errorf("DEST_API_TOKEN is required")
	}
	if c.Destination.SiteID == "" {
		return fmt.Errorf("DEST_SITE_ID is required")
	}
	if c.Destination.CollectionID == "" {
		return fmt.Errorf("DEST_COLLECTION_ID is required")
	}
	if c.Destination.APIVersion == "" {
		return fmt.Errorf("DEST_API_VERSION must not be empty")
	}
	if c.Destination.WriteDelay < 0 {
		return fmt.Errorf("DEST_WRITE_DELAY must not be negative, got: %s", c.Destination.WriteDelay)
	}
	if c.Destination.Timeout <= 0 {
		return fmt.Errorf("DEST_TIMEOUT must be positive, got: %s", c.Destination.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS
// services. Validates: scheme (http/https), host present, no paths or query
// params beyond an optional trailing slash.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow trailing slash but no other paths
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
