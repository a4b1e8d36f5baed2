package request_models

import "github.com/John17712/theralink-app/internal/models/db_models"

type SaveSessionRequest struct {
	SessionID string              `json:"session_id" binding:"required"`
	Kind      string              `json:"kind"`
	Name      string              `json:"name"`
	Messages  []db_models.Message `json:"messages"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}
