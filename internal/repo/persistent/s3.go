package persistent

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/andreyxaxa/Seed-Manager/pkg/s3client"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type PictureBlobRepo struct {
	*s3client.S3Client
	bucket string
}

func NewPictureBlobRepo(s3c *s3client.S3Client, bucket string) *PictureBlobRepo {
	return &PictureBlobRepo{s3c, bucket}
}

func (r *PictureBlobRepo) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("PictureBlobRepo - UploadBytes - r.Client.PutObject: %w", err)
	}

	return nil
}

func (r *PictureBlobRepo) DownloadBytes(ctx context.Context, key string) ([]byte, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("PictureBlobRepo - DownloadBytes - r.Client.GetObject: %w", err)
	}
	defer result.Body.Close()

	b, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("PictureBlobRepo - DownloadBytes - io.ReadAll: %w", err)
	}

	return b, nil
}

func (r *PictureBlobRepo) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("PictureBlobRepo - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}
