package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// SaveToGCSAtomically writes content to a GCS object only if it doesn't already exist.
// An existing object is not an error: callers are idempotent on redelivery.
func SaveToGCSAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName, contentType string, content []byte) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(content)); err != nil {
		_ = writer.Close()
		if isPreconditionFailed(err) {
			log.Printf("SKIPPING: Object %s already exists.", objectName)
			return nil
		}
		log.Printf("ERROR: Failed to copy content to GCS object %s: %v", objectName, err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		// The precondition is usually only evaluated when the upload is finalized.
		if isPreconditionFailed(err) {
			log.Printf("SKIPPING: Object %s already exists.", objectName)
			return nil
		}
		log.Printf("ERROR: Failed to close GCS writer for %s: %v", objectName, err)
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

// ReadGCSObject downloads an object into memory.
func ReadGCSObject(ctx context.Context, bucket *storage.BucketHandle, objectName string) ([]byte, error) {
	reader, err := bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for %s: %w", objectName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", objectName, err)
	}
	return data, nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
