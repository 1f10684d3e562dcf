package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type EnvValue interface {
	string | int | bool | time.Duration
}

// GetEnv reads an environment variable, falling back to defaultValue when it
// is unset or empty. A set but unparsable value is a configuration error and
// aborts startup.
func GetEnv[T EnvValue](name string, defaultValue T) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return defaultValue
	}
	return parseEnv[T](name, raw)
}

func GetRequiredEnv[T EnvValue](name string) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		log.Fatalf("%s environment variable is required", name)
	}
	return parseEnv[T](name, raw)
}

func parseEnv[T EnvValue](name, raw string) T {
	var out T
	switch ptr := any(&out).(type) {
	case *string:
		*ptr = raw
	case *int:
		value, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatal(envParseError(name, raw, "an integer"))
		}
		*ptr = value
	case *bool:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			log.Fatal(envParseError(name, raw, "a boolean"))
		}
		*ptr = value
	case *time.Duration:
		value, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal(envParseError(name, raw, "a duration"))
		}
		*ptr = value
	}
	return out
}

func envParseError(name, raw, expected string) string {
	return fmt.Sprintf("environment variable %s is not valid: '%s' is not %s", name, raw, expected)
}
