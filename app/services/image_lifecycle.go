package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"

	"github.com/designdekhoo/catalog-api/app/models"
)

// ImageUpdate is what a product-update request said about images.
//
// The cases are mutually exclusive and ordered by precedence:
//  1. NewFiles present: the whole image set is replaced; a Retained list
//     sent alongside is silently ignored (new files win unconditionally).
//  2. RetainedProvided with an empty Retained list: every image is removed.
//  3. RetainedProvided with entries: current images missing from Retained
//     are removed, the rest survive in Retained order.
//  4. Nothing provided: the image set is left untouched.
type ImageUpdate struct {
	NewFiles         []*multipart.FileHeader
	Retained         []string
	RetainedProvided bool
}

// ImageLifecycle keeps the external host's object set consistent with each
// product's persisted image list. External deletes always happen before the
// caller persists the new list, so a failed delete can never leave a
// dangling reference in the database.
type ImageLifecycle struct {
	store ImageStore
}

func NewImageLifecycle(store ImageStore) *ImageLifecycle {
	return &ImageLifecycle{store: store}
}

// UploadAll pushes every file to the external host and returns the image
// references in upload order. The first failure aborts; already-uploaded
// files are left on the host (no compensating delete exists upstream).
func (l *ImageLifecycle) UploadAll(ctx context.Context, files []*multipart.FileHeader) ([]models.FurnitureImage, error) {
	images := make([]models.FurnitureImage, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		uploaded, err := l.store.Upload(ctx, f, fh.Filename)
		f.Close()
		if err != nil {
			return nil, err
		}
		images = append(images, models.FurnitureImage{
			URL:      uploaded.URL,
			PublicID: uploaded.PublicID,
		})
	}
	return images, nil
}

// DeleteAll removes every image from the external host, continuing past
// individual failures and returning them joined. At-least-once cleanup, not
// a transaction.
func (l *ImageLifecycle) DeleteAll(ctx context.Context, images []models.FurnitureImage) error {
	var errs []error
	for _, img := range images {
		if err := l.store.Delete(ctx, img.PublicID); err != nil {
			log.Printf("ImageLifecycle: failed to delete image %s externally: %v", img.PublicID, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reconcile applies an ImageUpdate against the current image list and
// returns the new list plus whether the persisted list must change. Any
// external delete failure aborts before new state is returned, keeping the
// delete-before-persist ordering.
func (l *ImageLifecycle) Reconcile(ctx context.Context, current []models.FurnitureImage, update ImageUpdate) ([]models.FurnitureImage, bool, error) {
	switch {
	case len(update.NewFiles) > 0:
		if err := l.DeleteAll(ctx, current); err != nil {
			return nil, false, err
		}
		images, err := l.UploadAll(ctx, update.NewFiles)
		if err != nil {
			return nil, false, err
		}
		return images, true, nil

	case update.RetainedProvided && len(update.Retained) == 0:
		if err := l.DeleteAll(ctx, current); err != nil {
			return nil, false, err
		}
		return []models.FurnitureImage{}, true, nil

	case update.RetainedProvided:
		byURL := make(map[string]models.FurnitureImage, len(current))
		for _, img := range current {
			byURL[img.URL] = img
		}

		retainedSet := make(map[string]bool, len(update.Retained))
		kept := make([]models.FurnitureImage, 0, len(update.Retained))
		for _, url := range update.Retained {
			retainedSet[url] = true
			if img, ok := byURL[url]; ok {
				kept = append(kept, img)
			}
		}

		var orphaned []models.FurnitureImage
		for _, img := range current {
			if !retainedSet[img.URL] {
				orphaned = append(orphaned, img)
			}
		}
		if err := l.DeleteAll(ctx, orphaned); err != nil {
			return nil, false, err
		}
		return kept, true, nil

	default:
		// No image-related fields at all means no change requested.
		return current, false, nil
	}
}
