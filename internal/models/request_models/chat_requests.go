package request_models

type ChatMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Therapist string `json:"therapist"`
	Language  string `json:"language"`
}

type CallMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type TrialChatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

type RenameChatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// RenameCallRequest carries the transcript the title is summarized from.
type RenameCallRequest struct {
	Messages []TranscriptLine `json:"messages"`
}

type TranscriptLine struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
