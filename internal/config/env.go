// Where: deploy/internal/config/env.go
// What: Environment and flag overrides plus default version computation.
// Why: Keep precedence rules (flags > env > file > defaults) in one place.
package config

import (
	"strings"
	"time"
)

// Environment variables consumed by the orchestrator.
const (
	EnvProjectID = "GCP_PROJECT_ID"
	EnvRegion    = "GCP_REGION"
	EnvVersion   = "BUILD_VERSION"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// RevisionFunc returns the short revision of the current checkout.
type RevisionFunc func() (string, error)

// Overrides are explicit values from command-line flags.
type Overrides struct {
	ProjectID string
	Region    string
	Version   string
}

var now = time.Now

// Resolve applies environment and flag overrides to cfg and fixes the
// version for this invocation. The revision is only queried when neither a
// flag nor BUILD_VERSION provides one.
func Resolve(cfg Config, lookup LookupFunc, overrides Overrides, revision RevisionFunc) Config {
	cfg.ProjectID = firstNonEmpty(overrides.ProjectID, lookupValue(lookup, EnvProjectID), cfg.ProjectID)
	cfg.Region = firstNonEmpty(overrides.Region, lookupValue(lookup, EnvRegion), cfg.Region)
	cfg.Version = firstNonEmpty(overrides.Version, lookupValue(lookup, EnvVersion))
	if cfg.Version == "" {
		cfg.Version = DefaultVersion(revision)
	}
	return cfg
}

// DefaultVersion returns the trimmed revision when available and non-empty,
// otherwise a UTC timestamp formatted as YYYYMMDDHHMMSS.
func DefaultVersion(revision RevisionFunc) string {
	if revision != nil {
		if rev, err := revision(); err == nil {
			if trimmed := strings.TrimSpace(rev); trimmed != "" {
				return trimmed
			}
		}
	}
	return now().UTC().Format("20060102150405")
}

func lookupValue(lookup LookupFunc, key string) string {
	if lookup == nil {
		return ""
	}
	value, ok := lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
