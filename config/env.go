package config

import (
	"os"
	"strings"
)

// Environment selects which .env file is loaded and how strictly the
// resulting configuration is validated
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads ENV. CI=true wins over ENV so pipelines never pick up
// a developer's .env file.
func GetEnvironment() Environment {
	return parseEnvironment(os.Getenv("ENV"), os.Getenv("CI") == "true")
}

func parseEnvironment(name string, ci bool) Environment {
	if ci {
		return CI
	}
	switch Environment(strings.ToLower(strings.TrimSpace(name))) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// RequiresAPIKeys reports whether the text and image provider keys must be
// configured before the service starts
func (e Environment) RequiresAPIKeys() bool {
	return e == Production
}
