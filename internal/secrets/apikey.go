package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "jobsearch"

	// KeyringAccount names the search-provider API key entry.
	KeyringAccount = "serpapi"

	// EnvAPIKey is checked when the keychain has no entry.
	EnvAPIKey = "SERPAPI_KEY"
)

// GetAPIKey resolves the search-provider credential: keychain first, then
// the environment. An empty result is the run's fatal precondition.
func GetAPIKey() (string, error) {
	if pw, err := keyring.Get(KeyringService, KeyringAccount); err == nil {
		if pw = strings.TrimSpace(pw); pw != "" {
			return pw, nil
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v, nil
	}

	return "", errors.New("search API key not found (set it in the keychain or via " + EnvAPIKey + ")")
}

func SetAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, KeyringAccount, key)
}

func DeleteAPIKey() error {
	return keyring.Delete(KeyringService, KeyringAccount)
}
