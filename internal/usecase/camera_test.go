package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"genai-camera/internal/domain"
)

type recordingImages struct {
	keys         []string
	data         [][]byte
	contentTypes []string
	err          error
}

func (r *recordingImages) PutImage(_ context.Context, key string, data []byte, contentType string) error {
	r.keys = append(r.keys, key)
	r.data = append(r.data, data)
	r.contentTypes = append(r.contentTypes, contentType)
	return r.err
}

var keyPattern = regexp.MustCompile(`^\d{8}T\d{6}_[0-9a-f-]{36}\.jpg$`)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewCameraService_ValidatesDependency(t *testing.T) {
	_, err := NewCameraService(nil, 0)
	require.Error(t, err)
}

func TestUpload_HappyPath(t *testing.T) {
	images := &recordingImages{}
	svc, err := NewCameraService(images, 0)
	require.NoError(t, err)
	svc.now = fixedClock(time.Date(2024, 3, 5, 14, 7, 9, 500, time.FixedZone("JST", 9*3600)))

	raw := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}
	out, err := svc.Upload(context.Background(), domain.UploadImageRequest{
		Image:      base64.StdEncoding.EncodeToString(raw),
		InFileName: "image_1.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, "Image uploaded successfully", out.Message)
	require.True(t, strings.HasPrefix(out.FileName, "20240305T050709_"), out.FileName)
	require.Regexp(t, keyPattern, out.FileName)

	require.Equal(t, []string{out.FileName}, images.keys)
	require.Equal(t, raw, images.data[0])
	require.Equal(t, "image/jpeg", images.contentTypes[0])
}

func TestUpload_StripsDataURLPrefix(t *testing.T) {
	images := &recordingImages{}
	svc, err := NewCameraService(images, 0)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), domain.UploadImageRequest{
		Image: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg")),
	})
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg"), images.data[0])
}

func TestUpload_UniqueKeysWithinSameSecond(t *testing.T) {
	images := &recordingImages{}
	svc, err := NewCameraService(images, 0)
	require.NoError(t, err)
	svc.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	seen := map[string]bool{}
	img := base64.StdEncoding.EncodeToString([]byte("jpeg"))
	for i := 0; i < 50; i++ {
		out, err := svc.Upload(context.Background(), domain.UploadImageRequest{Image: img})
		require.NoError(t, err)
		require.False(t, seen[out.FileName], "duplicate key %s", out.FileName)
		seen[out.FileName] = true
	}
}

func TestUpload_Validation(t *testing.T) {
	cases := []struct {
		name   string
		image  string
		code   ErrorCode
		reason string
	}{
		{name: "missing", image: "", code: ErrorInvalidInput, reason: "missing_image"},
		{name: "blank", image: "   ", code: ErrorInvalidInput, reason: "missing_image"},
		{name: "bad base64", image: "!!!not-base64!!!", code: ErrorInvalidInput, reason: "invalid_base64"},
		{name: "prefix only", image: "data:image/png;base64,", code: ErrorInvalidInput, reason: "missing_image"},
		{name: "too large", image: base64.StdEncoding.EncodeToString(make([]byte, 64)), code: ErrorPayloadTooLarge, reason: "image_too_large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			images := &recordingImages{}
			svc, err := NewCameraService(images, 32)
			require.NoError(t, err)

			_, err = svc.Upload(context.Background(), domain.UploadImageRequest{Image: tc.image})
			requireCode(t, err, tc.code, tc.reason)
			require.Empty(t, images.keys)
		})
	}
}

func TestUpload_StoreError(t *testing.T) {
	svc, err := NewCameraService(&recordingImages{err: errors.New("AccessDenied")}, 0)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), domain.UploadImageRequest{Image: base64.StdEncoding.EncodeToString([]byte("x"))})
	requireCode(t, err, ErrorUploadFailed, "s3_put_error")
}

func TestImageKey(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 58, 0, time.UTC)
	require.Equal(t, "20231231T235958_abc.jpg", ImageKey(ts, "abc"))
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, ErrorInvalidInput, CodeOf(newError(ErrorInvalidInput, "x", nil)))
	require.Equal(t, ErrorInternal, CodeOf(errors.New("plain")))
}
