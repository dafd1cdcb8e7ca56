package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Vars is a simple string-to-string map of environment variables.
type Vars map[string]string

// FromOS builds a Vars map from the current process environment.
func FromOS() Vars {
	out := make(Vars)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

// Merge merges several Vars maps into one, later maps overriding earlier keys.
func Merge(sets ...Vars) Vars {
	out := make(Vars)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// Environ renders vars as a sorted KEY=VALUE slice.
func (v Vars) Environ() []string {
	out := make([]string, 0, len(v))
	for k, val := range v {
		out = append(out, k+"="+val)
	}
	sort.Strings(out)
	return out
}

// LoadDotEnv parses a .env file. A missing file yields an empty map.
func LoadDotEnv(path string) (Vars, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Vars{}, nil
		}
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return Vars(vars), nil
}

// LoadEnv returns the environment passed to commands and functions: the .env
// file at dotEnvPath, overridden by the process environment, with the
// environment marker set to env.
func LoadEnv(dotEnvPath string, environment Environment) (Vars, error) {
	fileVars, err := LoadDotEnv(dotEnvPath)
	if err != nil {
		return nil, err
	}
	return Merge(fileVars, FromOS(), Vars{EnvMarker: string(environment)}), nil
}
