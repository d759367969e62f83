package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env files (default: .env in the working directory) into the
// process environment. Variables already set win. Missing files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
