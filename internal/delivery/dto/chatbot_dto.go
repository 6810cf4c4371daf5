package dto

// Request DTOs

type ChatbotRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

// Response DTOs

type ChatbotResponse struct {
	Reply      string  `json:"reply"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Fallback   bool    `json:"fallback"`
}
