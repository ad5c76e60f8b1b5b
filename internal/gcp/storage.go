package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Object is a fully buffered GCS object with its custom metadata.
type Object struct {
	Bucket      string
	Name        string
	ContentType string
	Metadata    map[string]string
	Data        []byte
}

// Storage is a thin object store over a GCS client.
type Storage struct {
	client *storage.Client
}

func NewStorage(client *storage.Client) *Storage {
	return &Storage{client: client}
}

// Read downloads an object together with its attributes.
func (s *Storage) Read(ctx context.Context, bucket, name string) (*Object, error) {
	obj := s.client.Bucket(bucket).Object(name)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get attributes for %s: %w", URI(bucket, name), err)
	}
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for %s: %w", URI(bucket, name), err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", URI(bucket, name), err)
	}
	return &Object{
		Bucket:      bucket,
		Name:        name,
		ContentType: attrs.ContentType,
		Metadata:    attrs.Metadata,
		Data:        data,
	}, nil
}

// List returns the names of all objects under prefix, skipping folder
// placeholders.
func (s *Storage) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", URI(bucket, prefix), err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (s *Storage) Write(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	return SaveToGCSAtomically(ctx, s.client.Bucket(bucket), name, data, contentType)
}

// SaveToGCSAtomically writes content to a GCS object only if it doesn't already exist.
// An existing object counts as success so that retried events stay idempotent.
func SaveToGCSAtomically(ctx context.Context, bucket *storage.BucketHandle, objectName string, content []byte, contentType string) error {
	writer := bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(content)); err != nil {
		_ = writer.Close()
		if isPreconditionFailed(err) {
			slog.Info("Object already exists. Skipping write.", "gcsObject", objectName)
			return nil
		}
		slog.Error("Failed to copy content to GCS object.", "gcsObject", objectName, "error", err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		if isPreconditionFailed(err) {
			slog.Info("Object already exists. Skipping write.", "gcsObject", objectName)
			return nil
		}
		slog.Error("Failed to close GCS writer.", "gcsObject", objectName, "error", err)
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

// URI formats a gs:// address.
func URI(bucket, name string) string {
	return "gs://" + bucket + "/" + name
}

// ParseURI splits a gs://bucket/object address.
func ParseURI(uri string) (bucket, name string, err error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// URI: %q", uri)
	}
	bucket, name, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || name == "" {
		return "", "", fmt.Errorf("URI %q must name a bucket and an object", uri)
	}
	return bucket, name, nil
}
