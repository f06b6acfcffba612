package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// envPrefix namespaces every smm setting in the environment.
const envPrefix = "SMM_"

// envFiles are applied in order by LoadEnv; later files win.
var envFiles = []string{".env", ".env.dev"}

// LoadEnv applies the local env files and returns the ones it read. Missing
// files are skipped. A file that does not parse stops loading with an error.
func LoadEnv() ([]string, error) {
	var loaded []string
	for _, file := range envFiles {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			return loaded, fmt.Errorf("config.LoadEnv: %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// env returns SMM_<name>, or def when it is unset or blank.
func env(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + name)); v != "" {
		return v
	}
	return def
}

// envSeconds reads SMM_<name> as a whole number of seconds. Values that are
// not positive integers fall back to def.
func envSeconds(name string, def time.Duration) time.Duration {
	n, err := strconv.Atoi(env(name, ""))
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// LogLevel reads LOG_LEVEL, defaulting to info.
func LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
