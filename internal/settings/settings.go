// Package settings loads Dialog API configuration from the environment.
//
// A .env file in the working directory is merged into the environment at
// load time. All keys use the DIALOG_ prefix:
//
//	DIALOG_BASE_URL
//	DIALOG_<ORGANIZATION>_CLIENT_ID
//	DIALOG_<ORGANIZATION>_CLIENT_SECRET
package settings

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envPrefix prefixes every configuration variable
const envPrefix = "DIALOG_"

// ConfigError reports missing configuration for an organization. It is a
// startup failure, never a pipeline failure.
type ConfigError struct {
	Organization string
	Missing      []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid settings for organization %s: missing %s",
		e.Organization, strings.Join(e.Missing, ", "))
}

// OrganizationSettings carries the base URL and client credentials of one
// organization on the Dialog registry.
type OrganizationSettings struct {
	Organization string
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// LoadEnv merges a .env file into the process environment when one exists.
// Call once at startup, before ForOrganization.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables only")
		return
	}
	slog.Debug("loaded .env file")
}

// ForOrganization reads and validates the settings of one organization.
// Every missing value is reported at once in the returned *ConfigError.
func ForOrganization(organization string) (*OrganizationSettings, error) {
	key := strings.ToUpper(organization)

	s := &OrganizationSettings{
		Organization: strings.ToLower(organization),
		BaseURL:      os.Getenv(envPrefix + "BASE_URL"),
		ClientID:     os.Getenv(envPrefix + key + "_CLIENT_ID"),
		ClientSecret: os.Getenv(envPrefix + key + "_CLIENT_SECRET"),
	}

	var missing []string
	if s.BaseURL == "" {
		missing = append(missing, envPrefix+"BASE_URL")
	}
	if s.ClientID == "" {
		missing = append(missing, envPrefix+key+"_CLIENT_ID")
	}
	if s.ClientSecret == "" {
		missing = append(missing, envPrefix+key+"_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		for _, name := range missing {
			slog.Warn("missing setting", "organization", s.Organization, "variable", name)
		}
		return nil, &ConfigError{Organization: s.Organization, Missing: missing}
	}

	return s, nil
}
