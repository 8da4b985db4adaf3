package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvBaseURL = "CIG_BFF_URL"
	EnvToken   = "CIG_TOKEN"
	EnvProfile = "CIG_PROFILE"
)

// Source names where a resolved setting came from.
type Source string

const (
	SourceNone    Source = ""
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceDotEnv  Source = ".env"
	SourceProfile Source = "profile"
)

// Overrides are values given on the command line.
type Overrides struct {
	BaseURL string
	Token   string
	Profile string
	// DotEnvPath defaults to ".env" in the working directory.
	DotEnvPath string
}

// Settings is the resolved connection configuration.
type Settings struct {
	BaseURL       string
	Token         string
	Profile       string
	BaseURLSource Source
	TokenSource   Source
}

// lookupEnv is replaceable in tests.
var lookupEnv = os.LookupEnv

// Resolve applies the precedence flag > environment > .env > keyring profile.
// The keyring is only opened when a setting is still missing.
func Resolve(o Overrides) (Settings, error) {
	dotenv, err := readDotEnv(o.DotEnvPath)
	if err != nil {
		return Settings{}, err
	}
	lookup := func(key string) (string, Source) {
		if v, ok := lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), SourceEnv
		}
		if v := strings.TrimSpace(dotenv[key]); v != "" {
			return v, SourceDotEnv
		}
		return "", SourceNone
	}

	var s Settings
	if v := strings.TrimSpace(o.BaseURL); v != "" {
		s.BaseURL, s.BaseURLSource = v, SourceFlag
	} else {
		s.BaseURL, s.BaseURLSource = lookup(EnvBaseURL)
	}
	if v := strings.TrimSpace(o.Token); v != "" {
		s.Token, s.TokenSource = v, SourceFlag
	} else {
		s.Token, s.TokenSource = lookup(EnvToken)
	}
	if v := strings.TrimSpace(o.Profile); v != "" {
		s.Profile = v
	} else {
		s.Profile, _ = lookup(EnvProfile)
	}

	if s.BaseURL == "" || s.Token == "" {
		profile, err := LoadProfile(s.Profile)
		switch {
		case err == nil:
			if s.BaseURL == "" && profile.BaseURL != "" {
				s.BaseURL, s.BaseURLSource = profile.BaseURL, SourceProfile
			}
			if s.Token == "" && profile.Token != "" {
				s.Token, s.TokenSource = profile.Token, SourceProfile
			}
		case s.BaseURL == "":
			return Settings{}, err
		}
	}

	if s.BaseURL == "" {
		return Settings{}, ErrNotConfigured
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	return s, nil
}

// readDotEnv reads the file without exporting it, so exported variables
// always win. A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}
