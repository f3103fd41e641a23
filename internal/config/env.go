package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// VersionEnvVar names the environment variable carrying the version being built.
const VersionEnvVar = "DOCVERSIONS_VERSION"

var errNoEnvFile = errors.New("no .env file found")

// loadEnvFile loads the first of .env/.env.local found in dir. Variables
// already present in the process environment are not overwritten.
func loadEnvFile(dir string) error {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return godotenv.Load(p)
	}
	return errNoEnvFile
}

// VersionFromEnv returns the version token, or "" when unset.
func VersionFromEnv() string {
	return os.Getenv(VersionEnvVar)
}
