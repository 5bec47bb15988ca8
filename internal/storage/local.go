package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps images on the local filesystem and serves them through
// the REST server's /images/ route. For development and tests.
type LocalStore struct {
	baseURL string
	dir     string
}

func NewLocalStore(baseURL, dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &LocalStore{baseURL: strings.TrimRight(baseURL, "/"), dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, r io.Reader) (Object, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return Object{}, fmt.Errorf("failed to create directories: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return Object{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return Object{}, fmt.Errorf("failed to write file: %w", err)
	}

	url := s.baseURL + "/images/" + key
	// No resizing locally; the thumbnail is the original.
	return Object{Key: key, URL: url, ThumbnailURL: url}, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Open reads a stored image for the HTTP file handler.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
