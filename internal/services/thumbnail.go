package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/songreaktor/functions/internal/gcp"
	"github.com/songreaktor/functions/internal/models"
	"golang.org/x/image/draw"
)

const (
	coverPrefix     = "covers/"
	thumbnailPrefix = "thumbs/"
)

// ThumbnailConfig holds configuration for the cover thumbnailer.
type ThumbnailConfig struct {
	// Bucket receives thumbnails; empty means the source bucket.
	Bucket  string
	MaxEdge int
}

// ThumbnailService writes a small JPEG next to every uploaded cover image.
type ThumbnailService struct {
	storageClient *storage.Client
	config        ThumbnailConfig
}

func NewThumbnailService(storageClient *storage.Client, config ThumbnailConfig) *ThumbnailService {
	if config.MaxEdge <= 0 {
		config.MaxEdge = 512
	}
	return &ThumbnailService{storageClient: storageClient, config: config}
}

// Process handles one finalized object. Thumbnails are written under
// thumbs/, which is never processed, so the function does not feed itself.
func (f *ThumbnailService) Process(ctx context.Context, e models.GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	if !isCoverImage(e) {
		logCtx.Info("Not a cover image. Skipping.")
		return nil
	}

	src, err := gcp.ReadGCSObject(ctx, f.storageClient.Bucket(e.Bucket), e.Name)
	if err != nil {
		logCtx.Error("Failed to download cover", "error", err)
		return err
	}

	thumb, err := makeThumbnail(bytes.NewReader(src), f.config.MaxEdge)
	if err != nil {
		// Undecodable uploads will never succeed; retrying is pointless.
		logCtx.Warn("Cover is not a decodable image. Skipping.", "error", err)
		return nil
	}

	destBucket := f.config.Bucket
	if destBucket == "" {
		destBucket = e.Bucket
	}
	destName := thumbnailName(e.Name)
	if err := gcp.SaveToGCSAtomically(ctx, f.storageClient.Bucket(destBucket), destName, "image/jpeg", thumb); err != nil {
		logCtx.Error("Failed to save thumbnail", "error", err, "destination", destName)
		return err
	}
	logCtx.Info("Thumbnail written.", "destination", destName, "bytes", len(thumb))
	return nil
}

func isCoverImage(e models.GCSEvent) bool {
	return strings.HasPrefix(e.Name, coverPrefix) && strings.HasPrefix(e.ContentType, "image/")
}

// thumbnailName maps covers/a/b.png to thumbs/a/b.jpg.
func thumbnailName(name string) string {
	rel := strings.TrimPrefix(name, coverPrefix)
	return thumbnailPrefix + strings.TrimSuffix(rel, path.Ext(rel)) + ".jpg"
}

// makeThumbnail scales the image so its longest edge is at most maxEdge and
// encodes it as JPEG. Smaller images are re-encoded without upscaling.
func makeThumbnail(r *bytes.Reader, maxEdge int) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxEdge || h > maxEdge {
		if w >= h {
			h = h * maxEdge / w
			w = maxEdge
		} else {
			w = w * maxEdge / h
			h = maxEdge
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}
