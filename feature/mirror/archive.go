package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"notion-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ReportArchive persists run reports to object storage for auditing.
// Reports are write-only: no run ever reads one back, so the mirror stays
// stateless between runs.
type ReportArchive struct {
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewReportArchive creates an archive writing into the given bucket.
func NewReportArchive(client storage.Client, bucket string, log *zap.Logger) *ReportArchive {
	return &ReportArchive{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

// Save writes the report as JSON under reports/<month>/<run id>.json,
// creating the bucket on first use.
func (a *ReportArchive) Save(ctx context.Context, report *Report) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check report bucket: %w", err)
	}
	if !exists {
		a.log.Info("Creating report bucket", zap.String("bucket", a.bucket))
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create report bucket: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	object := fmt.Sprintf("reports/%s/%s.json", report.StartedAt.UTC().Format("2006-01"), report.RunID)
	_, err = a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to store report %s: %w", object, err)
	}

	return nil
}
