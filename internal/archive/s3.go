// Package archive keeps a durable copy of every published report in S3.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/reporting"
)

// archivedFormats are uploaded for every report, JSON first.
var archivedFormats = []string{reporting.FormatJSON, reporting.FormatHTML}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads the JSON and HTML renderings of a report.
type S3Archiver struct {
	client objectPutter
	bucket string
	prefix string
	log    *zap.Logger
}

// NewS3Archiver loads the default AWS credential chain for cfg.Region.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig, logger *zap.Logger) (*S3Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newS3Archiver(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix, logger), nil
}

func newS3Archiver(client objectPutter, bucket, prefix string, logger *zap.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    logger.Named("archive"),
	}
}

// Key returns the object key of a report rendering, partitioned by the
// window end date.
func (a *S3Archiver) Key(report *schemas.Report, format string) string {
	day := report.Window.End.UTC().Format("2006/01/02")
	return path.Join(a.prefix, day, report.ID+"."+format)
}

// Archive uploads every rendering and returns the s3:// URI of the JSON copy.
func (a *S3Archiver) Archive(ctx context.Context, report *schemas.Report) (string, error) {
	var uri string
	for _, format := range archivedFormats {
		renderer, err := reporting.New(format)
		if err != nil {
			return "", err
		}
		body, err := renderer.Render(report)
		if err != nil {
			return "", fmt.Errorf("failed to render %s copy of report %s: %w", format, report.ID, err)
		}

		key := a.Key(report, format)
		_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(renderer.ContentType()),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload report %s to s3://%s/%s: %w", report.ID, a.bucket, key, err)
		}
		if uri == "" {
			uri = fmt.Sprintf("s3://%s/%s", a.bucket, key)
		}
	}

	a.log.Info("Report archived", zap.String("report_id", report.ID), zap.String("uri", uri))
	return uri, nil
}
