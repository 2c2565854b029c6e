package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	deckerrors "github.com/chazuruo/launchdeck/internal/errors"
)

const fileHeader = "# launchdeck configuration\n# Environment variables LAUNCHDECK_<SECTION>_<FIELD> override these values.\n\n"

// Write validates cfg and saves it as TOML at path. The file is replaced
// atomically so a running launchdeck never reads half a config.
func Write(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrInvalid, err)}
	}

	buf := bytes.NewBufferString(fileHeader)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to encode: %w", err)}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}

	tmp, err := os.CreateTemp(dir, "."+configFileName+".*")
	if err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}
	if err := tmp.Close(); err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrIO, err)}
	}
	return nil
}
