// Package secrets resolves the OpenAI credential from a managed secrets
// file, falling back to the process environment.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredential indicates no API key was found in the secrets file
// or the environment. Querying is impossible without it.
var ErrMissingCredential = errors.New("credential not found")

type secretsFile struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
}

// ResolveAPIKey returns the API key from path (a YAML file with an
// openai_api_key entry) if present, otherwise from the environment
// variable envName. A missing or unreadable secrets file is not an error;
// a present but malformed one is.
func ResolveAPIKey(path, envName string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var sf secretsFile
			if err := yaml.Unmarshal(data, &sf); err != nil {
				return "", fmt.Errorf("invalid secrets file %s: %w", path, err)
			}
			if key := strings.TrimSpace(sf.OpenAIAPIKey); key != "" {
				return key, nil
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cannot read secrets file %s: %w", path, err)
		}
	}
	if key := strings.TrimSpace(os.Getenv(envName)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: set %s in the secrets file or as an environment variable", ErrMissingCredential, envName)
}
