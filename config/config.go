// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"anicatalog/services"
)

// Environment keys
const (
	EnvAddr            = "ANICATALOG_ADDR"
	EnvEndpoint        = "ANILIST_ENDPOINT"
	EnvTimeout         = "ANILIST_TIMEOUT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvSearchDebounce  = "SEARCH_DEBOUNCE"
	EnvSearchMinChars  = "SEARCH_MIN_CHARS"
	EnvSuggestPageSize = "SUGGEST_PAGE_SIZE"
)

// Defaults
const (
	DefaultAddr            = ":8080"
	DefaultEndpoint        = services.AniListEndpoint
	DefaultTimeout         = 30 * time.Second
	DefaultLogLevel        = "info"
	DefaultSearchDebounce  = 350 * time.Millisecond
	DefaultSearchMinChars  = 3
	DefaultSuggestPageSize = 8
)

// Config is the effective configuration.
type Config struct {
	Addr            string
	Endpoint        string
	Timeout         time.Duration
	LogLevel        string
	SearchDebounce  time.Duration
	SearchMinChars  int
	SuggestPageSize int
}

// Error reports an environment value that could not be used.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s=%q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s=%q", e.Key, e.Value)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            DefaultAddr,
		Endpoint:        DefaultEndpoint,
		Timeout:         DefaultTimeout,
		LogLevel:        DefaultLogLevel,
		SearchDebounce:  DefaultSearchDebounce,
		SearchMinChars:  DefaultSearchMinChars,
		SuggestPageSize: DefaultSuggestPageSize,
	}
}

// Load reads the given .env files (missing files are ignored) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := nonEmpty(lookup, EnvAddr); ok {
		cfg.Addr = v
	}
	if v, ok := nonEmpty(lookup, EnvEndpoint); ok {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return Config{}, &Error{Key: EnvEndpoint, Value: v, Err: errors.New("must be an http(s) URL")}
		}
		cfg.Endpoint = v
	}
	if v, ok := nonEmpty(lookup, EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}

	var err error
	if cfg.Timeout, err = durationVar(lookup, EnvTimeout, cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.SearchDebounce, err = durationVar(lookup, EnvSearchDebounce, cfg.SearchDebounce); err != nil {
		return Config{}, err
	}
	if cfg.SearchMinChars, err = positiveIntVar(lookup, EnvSearchMinChars, cfg.SearchMinChars); err != nil {
		return Config{}, err
	}
	if cfg.SuggestPageSize, err = positiveIntVar(lookup, EnvSuggestPageSize, cfg.SuggestPageSize); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func nonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func durationVar(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := nonEmpty(lookup, key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// bare numbers are milliseconds
		ms, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, &Error{Key: key, Value: v, Err: err}
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d <= 0 {
		return 0, &Error{Key: key, Value: v, Err: errors.New("must be positive")}
	}
	return d, nil
}

func positiveIntVar(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := nonEmpty(lookup, key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &Error{Key: key, Value: v, Err: err}
	}
	if n <= 0 {
		return 0, &Error{Key: key, Value: v, Err: errors.New("must be positive")}
	}
	return n, nil
}
