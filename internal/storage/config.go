package storage

import "fmt"

// Config holds storage configuration
type Config struct {
	Type    string // "local" or "cloudinary"
	Dir     string // Directory for local storage
	BaseURL string // Server base URL for local image URLs

	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func New(cfg Config) (BlobStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.BaseURL, cfg.Dir)
	case "cloudinary":
		return NewCloudinaryStore(cfg.CloudName, cfg.APIKey, cfg.APISecret, cfg.Folder)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
