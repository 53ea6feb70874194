package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"propman-backend/internal/config"
	"propman-backend/internal/models"
)

// Archiver uploads batch run results to R2 (S3-compatible) object
// storage for audit retention. Archival is best effort: callers log
// failures and move on, a missed archive never fails a batch.
type Archiver struct {
	client *s3.Client
	bucket string
}

// New returns nil when archival is disabled or not fully configured;
// a nil Archiver is safe to call.
func New(cfg *config.Config) *Archiver {
	if !cfg.Archive.Enabled {
		return nil
	}
	if cfg.Archive.Endpoint == "" || cfg.Archive.Bucket == "" || cfg.Archive.AccessKey == "" || cfg.Archive.SecretKey == "" {
		log.Printf("[Archive] Enabled but not fully configured, disabling")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		log.Printf("[Archive] Failed to configure R2 client: %v", err)
		return nil
	}

	endpoint := cfg.Archive.Endpoint
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Archiver{client: client, bucket: cfg.Archive.Bucket}
}

// StoreBatchResult uploads one ProcessLease result as JSON, keyed by
// lease and run timestamp.
func (a *Archiver) StoreBatchResult(ctx context.Context, result *models.BatchResult) error {
	if a == nil {
		return nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal batch result: %w", err)
	}

	key := fmt.Sprintf("late-fees/%s/%s.json", result.LeaseID, result.RanAt.Format("20060102T150405Z"))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload batch result: %w", err)
	}

	return nil
}
