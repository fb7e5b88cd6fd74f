package dto

// ChatUnavailableMessage is the error text shown whenever the AI service fails
const ChatUnavailableMessage = "AI service temporarily unavailable. Please try again."

// ChatRequest is a question for the AI assistant
type ChatRequest struct {
	Question    string `json:"question" example:"What topics are covered in DBMS?"`
	ContextType string `json:"context_type,omitempty" example:"syllabus"`
}

// ChatResponse is a successful answer
type ChatResponse struct {
	Success           bool   `json:"success" example:"true"`
	Answer            string `json:"answer"`
	ModelUsed         string `json:"model_used" example:"phi:latest"`
	ResponseTimeMS    int64  `json:"response_time_ms" example:"1840"`
	ContextChunksUsed int    `json:"context_chunks_used" example:"4"`
}

// ChatFailureResponse is returned when the AI service could not answer
type ChatFailureResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"AI service temporarily unavailable. Please try again."`
	Details string `json:"details,omitempty"`
}

// NewChatFailure builds the failure envelope
func NewChatFailure(details string) ChatFailureResponse {
	return ChatFailureResponse{Success: false, Error: ChatUnavailableMessage, Details: details}
}

// ChatProbeError is returned when /models or /health cannot reach the AI service
type ChatProbeError struct {
	Error string `json:"error" example:"Failed to fetch models"`
}
