package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envPaths are tried in order when no explicit env file is given.
var envPaths = []string{
	".env",
	".env.local",
}

// LoadEnv loads environment variables from envFile, or from the first .env
// file found in the working directory when envFile is empty. Variables that
// are already set in the process environment are never overridden.
//
// It returns the path that was loaded, or "" if none was found. A missing
// explicit envFile is an error; a missing default file is not.
func LoadEnv(envFile string) (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envFile, err)
		}
		return envFile, nil
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}
