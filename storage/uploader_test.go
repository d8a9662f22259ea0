package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("research/pdfs", "Paper.PDF")

	assert.True(t, strings.HasPrefix(key, "research/pdfs/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, ObjectKey("research/pdfs", "Paper.PDF"))
}

func TestLocalUploaderPut(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, "http://localhost:8080/uploads/")

	url, err := u.Put(context.Background(), "research/images/a.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/uploads/research/images/a.png", url)
	data, err := os.ReadFile(filepath.Join(dir, "research", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, u.Delete(context.Background(), "research/images/a.png"))
	require.NoError(t, u.Delete(context.Background(), "research/images/a.png"))
}

func TestLocalUploaderRejectsTraversal(t *testing.T) {
	u := NewLocalUploader(t.TempDir(), "http://localhost/uploads")

	_, err := u.Put(context.Background(), "../escape.pdf", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
	_, err = u.Put(context.Background(), "", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	body   string
	del    *s3.DeleteObjectInput
	putErr error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		data, _ := io.ReadAll(in.Body)
		f.body = string(data)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.del = in
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3UploaderPut(t *testing.T) {
	fake := &fakeS3{}
	u := &S3Uploader{client: fake, bucket: "airlab", publicBaseURL: "https://cdn.example.com"}

	url, err := u.Put(context.Background(), "research/pdfs/x.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/research/pdfs/x.pdf", url)
	assert.Equal(t, "airlab", aws.ToString(fake.put.Bucket))
	assert.Equal(t, "research/pdfs/x.pdf", aws.ToString(fake.put.Key))
	assert.Equal(t, "application/pdf", aws.ToString(fake.put.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(fake.put.ContentLength))
	assert.Equal(t, "%PDF", fake.body)
}

func TestS3UploaderPutError(t *testing.T) {
	u := &S3Uploader{client: &fakeS3{putErr: errors.New("access denied")}, bucket: "airlab"}

	_, err := u.Put(context.Background(), "k.pdf", strings.NewReader(""), 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3UploaderDelete(t *testing.T) {
	fake := &fakeS3{}
	u := &S3Uploader{client: fake, bucket: "airlab"}

	require.NoError(t, u.Delete(context.Background(), "k.pdf"))
	assert.Equal(t, "k.pdf", aws.ToString(fake.del.Key))
}
