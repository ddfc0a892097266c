package model

import (
	"fmt"
	"net/url"
)

// DefaultServiceURL is the download endpoint of a local download service.
const DefaultServiceURL = "http://localhost:8765/api/v1/download"

// Settings is the user configuration shared by all the submission surfaces.
type Settings struct {
	// ServiceURL is the download service submission endpoint.
	ServiceURL string
	// OutputDir is the directory where the service stores the downloads (optional).
	OutputDir string
}

// DefaultSettings returns the settings used when the user didn't configure anything.
func DefaultSettings() Settings {
	return Settings{ServiceURL: DefaultServiceURL}
}

// Validate validates the settings.
func (s Settings) Validate() error {
	if s.ServiceURL == "" {
		return fmt.Errorf("service url is required: %w", ErrNotValid)
	}

	u, err := url.Parse(s.ServiceURL)
	if err != nil {
		return fmt.Errorf("invalid service url %q: %w", s.ServiceURL, ErrNotValid)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("service url scheme must be http or https, got %q: %w", u.Scheme, ErrNotValid)
	}

	if u.Host == "" {
		return fmt.Errorf("service url %q has no host: %w", s.ServiceURL, ErrNotValid)
	}

	return nil
}
