// Package covers stores uploaded cover images in object storage.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("cover uploads are not configured")

// ErrNotImage is returned for uploads whose content type is not an image.
var ErrNotImage = errors.New("cover must be an image")

// ErrForeignURL is returned when asked to remove a URL outside the bucket.
var ErrForeignURL = errors.New("url does not belong to the cover bucket")

// Uploader stores a cover image and returns the URL it is served from.
// Remove deletes a cover previously returned by Upload.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// objectStore is the part of the storage client the uploader uses.
type objectStore interface {
	UploadFile(bucketID, relativePath string, data io.Reader, opts ...storage.FileOptions) (storage.FileUploadResponse, error)
	RemoveFile(bucketID string, paths []string) ([]storage.FileUploadResponse, error)
	GetPublicUrl(bucketID, filePath string, opts ...storage.UrlOptions) storage.SignedUrlResponse
}

// SupabaseUploader uploads covers into a Supabase Storage bucket.
type SupabaseUploader struct {
	client objectStore
	bucket string
}

// NewSupabaseUploader creates an uploader for bucket on the Supabase project at baseURL.
// It returns nil when baseURL or key is empty.
func NewSupabaseUploader(baseURL, key, bucket string) *SupabaseUploader {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" || key == "" {
		return nil
	}
	return &SupabaseUploader{
		client: storage.NewClient(baseURL+"/storage/v1", key, nil),
		bucket: bucket,
	}
}

// Upload stores the image under covers/<uuid><ext> and returns its public URL.
func (u *SupabaseUploader) Upload(ctx context.Context, filename, contentType string, data io.Reader) (string, error) {
	if u == nil {
		return "", ErrDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	objectPath := "covers/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	_, err := u.client.UploadFile(u.bucket, objectPath, data, storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	return u.PublicURL(objectPath), nil
}

// PublicURL is the address of an object in the uploader's public bucket.
func (u *SupabaseUploader) PublicURL(objectPath string) string {
	return u.client.GetPublicUrl(u.bucket, objectPath).SignedURL
}

// Remove deletes the object behind a URL returned by Upload.
func (u *SupabaseUploader) Remove(ctx context.Context, url string) error {
	if u == nil {
		return ErrDisabled
	}
	objectPath, ok := strings.CutPrefix(url, u.PublicURL(""))
	if !ok || objectPath == "" {
		return ErrForeignURL
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := u.client.RemoveFile(u.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("remove cover: %w", err)
	}
	return nil
}
