// Package storage saves uploaded media either on local disk or in an
// S3-compatible bucket (AWS S3, Cloudflare R2).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Storage puts an object under key and returns the URL clients should use.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// ThumbnailWidth is the width pro-video thumbnails are scaled down to.
const ThumbnailWidth = 480

// ObjectKey builds "<category>/<slug>-<uuid><ext>". The slug keeps keys
// readable; the uuid keeps them unique.
func ObjectKey(category, name, ext string) string {
	base := slug.Make(name)
	if base == "" {
		base = "upload"
	}
	if len(base) > 60 {
		base = strings.Trim(base[:60], "-")
	}
	return fmt.Sprintf("%s/%s-%s%s", category, base, uuid.NewString(), strings.ToLower(ext))
}

// SaveUpload stores a multipart file under category, naming it after title.
func SaveUpload(ctx context.Context, s Storage, fh *multipart.FileHeader, category, title string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := title
	if name == "" {
		name = strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	}
	key := ObjectKey(category, name, filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.Put(ctx, key, src, fh.Size, contentType)
}

// SaveThumbnail decodes an uploaded image, scales it to ThumbnailWidth
// keeping the aspect ratio, and stores it as JPEG.
func SaveThumbnail(ctx context.Context, s Storage, fh *multipart.FileHeader, category, title string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open thumbnail: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("thumbnail is not a supported image: %w", err)
	}
	thumb := resize(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	key := ObjectKey(category, title+"-thumb", ".jpg")
	return s.Put(ctx, key, &buf, int64(buf.Len()), "image/jpeg")
}

func resize(img image.Image) image.Image {
	if img.Bounds().Dx() <= ThumbnailWidth {
		return img
	}
	return imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
}
