package domain

// Classification is the latest analysis of a captured image, written by the
// external analyzer into the classifications table.
type Classification struct {
	ID                string   `json:"id" dynamodbav:"id"`
	Timestamp         string   `json:"timestamp" dynamodbav:"timestamp"`
	Caption           string   `json:"caption" dynamodbav:"caption"`
	Classification    string   `json:"classification" dynamodbav:"classification"`
	Caution           bool     `json:"caution" dynamodbav:"-"`
	Labels            []string `json:"labels" dynamodbav:"-"`
	ImageCaptionModel string   `json:"imageCaptionModel,omitempty" dynamodbav:"image_caption_model"`
	S3Location        string   `json:"s3Location,omitempty" dynamodbav:"s3_location"`
	FrontS3Location   string   `json:"frontS3Location,omitempty" dynamodbav:"front_s3_location"`
	ImageName         string   `json:"imageName,omitempty" dynamodbav:"-"`
	ImageURL          string   `json:"imageUrl,omitempty" dynamodbav:"-"`
}
