package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kapu/prompt-studio-go/pkg/errors"
	"go.uber.org/zap"
)

// FileStore persists all keys as one JSON object, rewritten atomically on every mutation.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.NewStorageError("failed to create storage directory", "open", path, err)
		}
	}

	values := make(map[string]string)
	content, err := os.ReadFile(path)
	switch {
	case err == nil && len(content) > 0:
		if err := json.Unmarshal(content, &values); err != nil {
			return nil, errors.NewStorageError("storage file is corrupt", "open", path, err)
		}
	case err != nil && !os.IsNotExist(err):
		return nil, errors.NewStorageError("failed to read storage file", "open", path, err)
	}

	logger.Info("File storage opened",
		zap.String("path", path),
		zap.Int("keys", len(values)),
	)

	return &FileStore{path: path, values: values, logger: logger}, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.copyValues()
	next[key] = value
	if err := f.flush(next); err != nil {
		f.logger.Error("File storage write failed", zap.String("key", key), zap.Error(err))
		return errors.NewStorageError("set failed", "set", key, err)
	}
	f.values = next
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[key]; !ok {
		return nil
	}
	next := f.copyValues()
	delete(next, key)
	if err := f.flush(next); err != nil {
		f.logger.Error("File storage delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewStorageError("delete failed", "del", key, err)
	}
	f.values = next
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) copyValues() map[string]string {
	next := make(map[string]string, len(f.values)+1)
	for k, v := range f.values {
		next[k] = v
	}
	return next
}

func (f *FileStore) flush(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".promptstudio-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
