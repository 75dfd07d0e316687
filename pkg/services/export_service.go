package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"tag-admin/pkg/models"
)

// exportPrefix is the bucket folder exports are written to
const exportPrefix = "exports/"

// ExportObject describes one uploaded export
type ExportObject struct {
	Name    string
	Size    int64
	Created time.Time
}

// BuildExport collects every tag matching filter into an export document
func (s *Service) BuildExport(ctx context.Context, filter string, now time.Time) (*models.TagExport, error) {
	tags, err := s.CollectTags(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.TagExport{
		Filter:     filter,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Items:      len(tags),
		Tags:       tags,
	}, nil
}

// ExportObjectName returns the bucket object name for an export taken at now
func ExportObjectName(now time.Time) string {
	return fmt.Sprintf("%stags-%s.json", exportPrefix, now.UTC().Format("20060102-150405"))
}

// BuildExport collects every tag matching filter through the default service
func BuildExport(ctx context.Context, filter string, now time.Time) (*models.TagExport, error) {
	return defaultService.BuildExport(ctx, filter, now)
}

// UploadExport writes export as JSON to the configured bucket and returns the object name
func UploadExport(ctx context.Context, export *models.TagExport, now time.Time) (string, error) {
	return defaultService.UploadExport(ctx, export, now)
}

// UploadExport writes export as JSON to the configured bucket and returns the object name
func (s *Service) UploadExport(ctx context.Context, export *models.TagExport, now time.Time) (string, error) {
	if err := s.config.RequireBucket(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %v", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create storage client: %v", err)
	}
	defer client.Close()

	name := ExportObjectName(now)
	writer := client.Bucket(s.config.BucketName).Object(name).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("Writer.Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %v", err)
	}

	s.logger.Info().Str("bucket", s.config.BucketName).Str("object", name).Int("items", export.Items).Msg("export uploaded")
	return name, nil
}

// ListExports returns the exports stored in the configured bucket
func ListExports(ctx context.Context) ([]ExportObject, error) {
	return defaultService.ListExports(ctx)
}

// ListExports returns the exports stored in the configured bucket
func (s *Service) ListExports(ctx context.Context) ([]ExportObject, error) {
	if err := s.config.RequireBucket(); err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}
	defer client.Close()

	it := client.Bucket(s.config.BucketName).Objects(ctx, &storage.Query{Prefix: exportPrefix})

	var exports []ExportObject
	for {
		obj, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return exports, fmt.Errorf("error iterating objects: %v", err)
		}
		if !strings.HasSuffix(obj.Name, ".json") {
			continue
		}
		exports = append(exports, ExportObject{
			Name:    obj.Name,
			Size:    obj.Size,
			Created: obj.Created,
		})
	}

	return exports, nil
}
