package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/John17712/theralink-app/internal/models/request_models"
	"github.com/John17712/theralink-app/internal/services"
	"github.com/John17712/theralink-app/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// Chat godoc
// @Summary Send a chat message
// @Description Runs one chat exchange against the companion model
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.ChatMessageRequest true "Chat payload"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /chat [post]
func (ch *ChatController) Chat(c *gin.Context) {
	var req request_models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	userID := c.GetString("user_id")

	reply, sessionName, err := ch.chatService.ChatTurn(
		c.Request.Context(), userID, req.SessionID, req.Message, req.Therapist, req.Language)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	body := gin.H{"reply": reply}
	if sessionName != "" {
		body["sessionName"] = sessionName
	}
	utils.RespondSuccess(c, body)
}

// Call runs one voice-call exchange. Unlike chat, model failures surface as
// an error response so the voice client can stop gracefully.
func (ch *ChatController) Call(c *gin.Context) {
	var req request_models.CallMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	userID := c.GetString("user_id")

	reply, err := ch.chatService.CallTurn(c.Request.Context(), userID, req.SessionID, req.Message)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Sorry, something went wrong with the call.")
		return
	}

	utils.RespondSuccess(c, gin.H{"reply": reply, "session_id": req.SessionID})
}

func (ch *ChatController) RenameChatSession(c *gin.Context) {
	var req request_models.RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	name := ch.chatService.NameChatSession(c.Request.Context(), req.Message, req.Language)
	utils.RespondSuccess(c, gin.H{"name": name})
}

func (ch *ChatController) RenameCallSession(c *gin.Context) {
	var req request_models.RenameCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	name := ch.chatService.NameCallSession(c.Request.Context(), req.Messages)
	utils.RespondSuccess(c, gin.H{"name": name})
}

// Transcribe accepts a multipart audio upload and returns its text.
func (ch *ChatController) Transcribe(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Missing audio file")
		return
	}
	defer file.Close()

	text, err := ch.chatService.Transcribe(c.Request.Context(), header.Filename, file)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, "Transcription failed")
		return
	}

	utils.RespondSuccess(c, gin.H{"text": text})
}
