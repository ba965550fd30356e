package services

import (
	"context"
	"fmt"
	"path"
	"time"
)

// ArchivedReport describes a report copy kept in object storage
type ArchivedReport struct {
	Key string
	URL string
}

// ArchiveReport copies a generated document to object storage under
// reports/YYYY/MM/<filename>. It is a no-op (nil, nil) when no storage
// is configured.
func ArchiveReport(ctx context.Context, filename, contentType string, body []byte, now time.Time) (*ArchivedReport, error) {
	store := GetS3Service()
	if store == nil {
		return nil, nil
	}

	key := path.Join("reports", now.UTC().Format("2006"), now.UTC().Format("01"), filename)
	if err := store.PutObject(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	url, err := store.GetPresignedURL(ctx, key)
	if err != nil {
		return &ArchivedReport{Key: key}, fmt.Errorf("report archived but URL unavailable: %w", err)
	}
	return &ArchivedReport{Key: key, URL: url}, nil
}
