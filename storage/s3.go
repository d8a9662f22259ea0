package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BerniceZTT/airlab_end/utils"
)

// objectAPI S3Uploader用到的S3接口，测试时替换
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Uploader 上传到S3存储桶
type S3Uploader struct {
	client        objectAPI
	bucket        string
	publicBaseURL string
}

// NewS3Uploader 使用默认AWS凭证链创建上传器。publicBaseURL为空时使用存储桶的虚拟主机地址
func NewS3Uploader(ctx context.Context, bucket, region, publicBaseURL string) (*S3Uploader, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}
	return &S3Uploader{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (u *S3Uploader) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}
	utils.Logger.Info().Str("bucket", u.bucket).Str("key", key).Int64("size", size).Msg("[文件上传] 已上传到S3")
	return publicURL(u.publicBaseURL, key), nil
}

func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}
