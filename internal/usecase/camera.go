package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"genai-camera/internal/domain"
)

const (
	// DefaultMaxImageBytes bounds a decoded upload; API Gateway and Lambda cap
	// payloads near 6 MB anyway.
	DefaultMaxImageBytes = 5 << 20

	imageContentType = "image/jpeg"
	keyTimeLayout    = "20060102T150405"

	uploadedMessage = "Image uploaded successfully"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

type ImageWriter interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) error
}

// CameraService stores webcam captures in the edge images bucket, where the
// analyzer picks them up.
type CameraService struct {
	images   ImageWriter
	maxBytes int
	now      func() time.Time
}

func NewCameraService(images ImageWriter, maxBytes int) (*CameraService, error) {
	if images == nil {
		return nil, errors.New("usecase: image writer must not be nil")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &CameraService{images: images, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *CameraService) Upload(ctx context.Context, req domain.UploadImageRequest) (domain.UploadResult, error) {
	encoded := strings.TrimSpace(req.Image)
	if encoded == "" {
		return domain.UploadResult{}, newError(ErrorInvalidInput, "missing_image", nil)
	}
	encoded = dataURLPrefix.ReplaceAllString(encoded, "")

	if base64.StdEncoding.DecodedLen(len(encoded)) > s.maxBytes+3 {
		return domain.UploadResult{}, newError(ErrorPayloadTooLarge, "image_too_large", nil)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domain.UploadResult{}, newError(ErrorInvalidInput, "invalid_base64", err)
	}
	if len(data) == 0 {
		return domain.UploadResult{}, newError(ErrorInvalidInput, "missing_image", nil)
	}
	if len(data) > s.maxBytes {
		return domain.UploadResult{}, newError(ErrorPayloadTooLarge, "image_too_large", nil)
	}

	key := ImageKey(s.now(), newUUID())
	if err := s.images.PutImage(ctx, key, data, imageContentType); err != nil {
		return domain.UploadResult{}, newError(ErrorUploadFailed, "s3_put_error", err)
	}

	log.Ctx(ctx).Info().
		Str("key", key).
		Str("inFileName", req.InFileName).
		Int("bytes", len(data)).
		Msg("Camera image uploaded")
	return domain.UploadResult{Message: uploadedMessage, FileName: key}, nil
}

// ImageKey builds "<UTC YYYYMMDDTHHMMSS>_<id>.jpg". The id keeps keys unique
// within the same second.
func ImageKey(t time.Time, id string) string {
	return fmt.Sprintf("%s_%s.jpg", t.UTC().Format(keyTimeLayout), id)
}

var newUUID = func() string {
	return uuid.NewString()
}
