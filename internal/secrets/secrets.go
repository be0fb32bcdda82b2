// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// resolves the key for a completion provider. Each file holds one secret:
// the filename is the key name and the trimmed contents are the value.
//
// Supported key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Key file names.
const (
	OpenAIKeyFile    = "openai-api-key"
	AnthropicKeyFile = "anthropic-api-key"
)

// Environment variables checked before the key files.
const (
	OpenAIKeyEnv    = "OPENAI_API_KEY"
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Resolver picks the API key for a provider. An explicit key wins, then the
// provider's environment variable, then the provider's key file.
type Resolver struct {
	Secrets map[string]string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// APIKey returns the key for p, or "" when none is configured, which puts
// the run in demo mode.
func (r Resolver) APIKey(p types.Provider, explicit string) string {
	if k := strings.TrimSpace(explicit); k != "" {
		return k
	}
	env, file := sourcesFor(p)
	if env == "" {
		return ""
	}
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if k := strings.TrimSpace(getenv(env)); k != "" {
		return k
	}
	return r.Secrets[file]
}

func sourcesFor(p types.Provider) (env, file string) {
	switch p {
	case types.ProviderOpenAI:
		return OpenAIKeyEnv, OpenAIKeyFile
	case types.ProviderAnthropic:
		return AnthropicKeyEnv, AnthropicKeyFile
	}
	return "", ""
}
