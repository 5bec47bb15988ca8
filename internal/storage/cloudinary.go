package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"swapcircle-backend/internal/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const thumbnailTransformation = "c_fill,w_320,h_320"

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, key, contentType string, r io.Reader) (Object, error) {
	publicID := strings.TrimSuffix(key, AllowedContentTypes[contentType])
	logger.ExternalServiceCall("cloudinary", "Upload", "publicID", publicID)

	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:  publicID,
		Folder:    s.folder,
		Overwrite: api.Bool(true),
		Eager:     thumbnailTransformation,
	})
	if err == nil && resp.Error.Message != "" {
		err = fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	logger.ExternalServiceResult("cloudinary", "Upload", err, "publicID", publicID)
	if err != nil {
		return Object{}, err
	}

	obj := Object{Key: resp.PublicID, URL: resp.SecureURL, ThumbnailURL: resp.SecureURL}
	for _, eager := range resp.Eager {
		if eager.SecureURL != "" {
			obj.ThumbnailURL = eager.SecureURL
			break
		}
	}
	return obj, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	logger.ExternalServiceCall("cloudinary", "Destroy", "publicID", key)
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	logger.ExternalServiceResult("cloudinary", "Destroy", err, "publicID", key)
	return err
}
