package dto

type ChatRequest struct {
	Input    string `json:"input" validate:"required"`
	Category int    `json:"category" validate:"required,min=1,max=4"`
	UserId   string `json:"user_id" validate:"required"`
}

type ChatResponse struct {
	Response     string `json:"response"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
}
