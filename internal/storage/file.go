package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/rs/zerolog"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// fileAdapter stores each key as <dir>/<key>.json.
type fileAdapter struct {
	dir    string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFileAdapter creates an adapter rooted at dir, creating it if needed.
func NewFileAdapter(dir string, logger zerolog.Logger) (Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "file-storage").Logger()
	logger.Info().Str("dir", dir).Msg("file storage initialised")

	return &fileAdapter{
		dir:    dir,
		logger: logger,
	}, nil
}

func (a *fileAdapter) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(a.dir, key+".json"), nil
}

func (a *fileAdapter) Get(_ context.Context, key string) (string, bool, error) {
	path, err := a.path(key)
	if err != nil {
		return "", false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		a.logger.Error().Err(err).Str("key", key).Msg("failed to read storage file")
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), true, nil
}

// Set writes to a temporary file and renames it so a crash never leaves a
// half-written value behind.
func (a *fileAdapter) Set(_ context.Context, key, value string) error {
	path, err := a.path(key)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tmp, err := os.CreateTemp(a.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		a.logger.Error().Err(err).Str("key", key).Msg("failed to replace storage file")
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

func (a *fileAdapter) Remove(_ context.Context, key string) error {
	path, err := a.path(key)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
