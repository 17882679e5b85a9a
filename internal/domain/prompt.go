package domain

// Prompt is a stored prompt template selectable by id.
type Prompt struct {
	ID     string `json:"id" dynamodbav:"id"`
	Prompt string `json:"prompt" dynamodbav:"prompt"`
}

// PromptList is the GET /prompts payload.
type PromptList struct {
	Prompts    []Prompt `json:"prompts"`
	SelectedID string   `json:"selectedId"`
}

// PutPromptRequest edits a prompt (when ID is set) and moves the selection.
// It is echoed back on success.
type PutPromptRequest struct {
	ID         string `json:"id,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	SelectedID string `json:"selectedId"`
}
