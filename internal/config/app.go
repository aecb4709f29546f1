package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads a .env file from the working directory if there is one.
// Variables that are already set are left untouched.
func Load() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

// Addr is the listen address, ":8080" unless APP_PORT is set.
func Addr() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// LogFile is the path of the rotating engine log, empty when disabled.
func LogFile() string {
	return os.Getenv("LOG_FILE")
}

func lookupMillis(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer number of milliseconds: %w", key, err)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
