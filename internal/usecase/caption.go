package usecase

import (
	"context"
	"errors"
	"path"
	"strings"

	"genai-camera/internal/domain"
)

type CaptionReader interface {
	Latest(ctx context.Context) (domain.Classification, bool, error)
}

// CaptionService serves the most recent classification record.
type CaptionService struct {
	reader         CaptionReader
	contentBaseURL string
}

// NewCaptionService creates a CaptionService. contentBaseURL is the public
// base of the content bucket (the CloudFront domain); it may be empty.
func NewCaptionService(r CaptionReader, contentBaseURL string) (*CaptionService, error) {
	if r == nil {
		return nil, errors.New("usecase: caption reader must not be nil")
	}
	contentBaseURL = strings.TrimSpace(contentBaseURL)
	if contentBaseURL != "" && !strings.HasSuffix(contentBaseURL, "/") {
		contentBaseURL += "/"
	}
	return &CaptionService{reader: r, contentBaseURL: contentBaseURL}, nil
}

// Latest returns the newest record. found is false while the analyzer has not
// written anything yet.
func (s *CaptionService) Latest(ctx context.Context) (domain.Classification, bool, error) {
	rec, found, err := s.reader.Latest(ctx)
	if err != nil {
		return domain.Classification{}, false, newError(ErrorInternal, "dynamodb_caption_error", err)
	}
	if !found {
		return domain.Classification{}, false, nil
	}

	rec.Caution = strings.TrimSpace(rec.Classification) == "1"
	if rec.Labels == nil {
		rec.Labels = []string{}
	}
	if rec.S3Location != "" {
		rec.ImageName = path.Base(rec.S3Location)
		if s.contentBaseURL != "" {
			// The analyzer writes the annotated copy under images/ in the content bucket.
			rec.ImageURL = s.contentBaseURL + "images/" + rec.ImageName
		}
	}
	return rec, true, nil
}
