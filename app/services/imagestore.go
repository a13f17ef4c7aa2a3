package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadedImage identifies an object on the external image host. PublicID is
// what delete-by-identifier calls need.
type UploadedImage struct {
	URL      string
	PublicID string
}

// ImageStore is the external image host. Both calls are fallible remote
// calls with no compensating transaction.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type cloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg CloudinaryConfig) (ImageStore, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}
	return &cloudinaryStore{client: client, folder: cfg.Folder}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (*UploadedImage, error) {
	resp, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("failed to upload %s: %s", filename, resp.Error.Message)
	}

	return &UploadedImage{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}

func (s *cloudinaryStore) Delete(ctx context.Context, publicID string) error {
	resp, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("failed to delete image %s: %s", publicID, resp.Result)
	}
	return nil
}
