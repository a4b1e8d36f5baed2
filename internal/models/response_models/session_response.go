package response_models

import "github.com/John17712/theralink-app/internal/models/db_models"

type SessionResponse struct {
	SessionID string              `json:"session_id"`
	Name      string              `json:"name"`
	Kind      string              `json:"kind"`
	Messages  []db_models.Message `json:"messages"`
}

type TrialCallStatus struct {
	OK           bool   `json:"ok"`
	Remaining    int    `json:"remaining"`
	SessionsLeft int    `json:"sessions_left"`
	Error        string `json:"error,omitempty"`
}
