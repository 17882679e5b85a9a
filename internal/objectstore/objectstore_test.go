package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

type fakeMinio struct {
	exists     bool
	existsErr  error
	madeBucket string
	putBucket  string
	putKey     string
	putBody    []byte
	putOpts    minio.PutObjectOptions
	putErr     error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.madeBucket = bucket
	return nil
}

func (f *fakeMinio) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putBucket = bucket
	f.putKey = key
	f.putBody, _ = io.ReadAll(r)
	f.putOpts = opts
	return minio.UploadInfo{Bucket: bucket, Key: key}, f.putErr
}

func TestNewS3Store_Validates(t *testing.T) {
	_, err := NewS3Store(nil, "bucket")
	require.Error(t, err)
	_, err = NewS3Store(&fakeS3{}, "")
	require.Error(t, err)
}

func TestS3Store_PutImage(t *testing.T) {
	api := &fakeS3{}
	st, err := NewS3Store(api, "edge-images")
	require.NoError(t, err)

	require.NoError(t, st.PutImage(context.Background(), "k.jpg", []byte{0xff, 0xd8}, "image/jpeg"))
	require.Equal(t, "edge-images", aws.ToString(api.in.Bucket))
	require.Equal(t, "k.jpg", aws.ToString(api.in.Key))
	require.Equal(t, "image/jpeg", aws.ToString(api.in.ContentType))
	require.Equal(t, int64(2), aws.ToInt64(api.in.ContentLength))
	require.Equal(t, []byte{0xff, 0xd8}, api.body)
}

func TestS3Store_PutImageError(t *testing.T) {
	st, err := NewS3Store(&fakeS3{err: errors.New("AccessDenied")}, "edge-images")
	require.NoError(t, err)

	err = st.PutImage(context.Background(), "k.jpg", []byte{1}, "image/jpeg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "s3://edge-images/k.jpg")
}

func TestNewMinioStore_CreatesMissingBucket(t *testing.T) {
	api := &fakeMinio{}
	_, err := newMinioStore(context.Background(), api, "camera", "us-east-1")
	require.NoError(t, err)
	require.Equal(t, "camera", api.madeBucket)
}

func TestNewMinioStore_ExistingBucket(t *testing.T) {
	api := &fakeMinio{exists: true}
	_, err := newMinioStore(context.Background(), api, "camera", "")
	require.NoError(t, err)
	require.Empty(t, api.madeBucket)
}

func TestNewMinioStore_Errors(t *testing.T) {
	_, err := newMinioStore(context.Background(), &fakeMinio{}, " ", "")
	require.Error(t, err)

	_, err = newMinioStore(context.Background(), &fakeMinio{existsErr: errors.New("dial tcp")}, "camera", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "check bucket")

	_, err = NewMinioStore(context.Background(), MinioOptions{Bucket: "camera"})
	require.Error(t, err)
}

func TestMinioStore_PutImage(t *testing.T) {
	api := &fakeMinio{exists: true}
	st, err := newMinioStore(context.Background(), api, "camera", "")
	require.NoError(t, err)

	require.NoError(t, st.PutImage(context.Background(), "k.jpg", []byte("jpeg"), "image/jpeg"))
	require.Equal(t, "camera", api.putBucket)
	require.Equal(t, "k.jpg", api.putKey)
	require.Equal(t, []byte("jpeg"), api.putBody)
	require.Equal(t, "image/jpeg", api.putOpts.ContentType)
}

func TestMinioStore_PutImageError(t *testing.T) {
	st, err := newMinioStore(context.Background(), &fakeMinio{exists: true, putErr: errors.New("boom")}, "camera", "")
	require.NoError(t, err)

	require.Error(t, st.PutImage(context.Background(), "k.jpg", []byte("x"), "image/jpeg"))
}
