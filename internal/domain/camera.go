package domain

// UploadImageRequest is the POST /camera body. Image holds base64 JPEG data.
type UploadImageRequest struct {
	Image      string `json:"image"`
	InFileName string `json:"inFileName,omitempty"`
}

// UploadResult reports the object key a camera image was stored under.
type UploadResult struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}
