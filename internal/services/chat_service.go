package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/models/db_models"
	"github.com/John17712/theralink-app/internal/models/request_models"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

const (
	// Returned to the caller whenever the completion call fails. The real
	// error goes to the logs only.
	apologyLine = "Sorry, something went wrong."

	// Substituted when the model repeats itself on a call.
	repetitionFallback = "Let's take a breath. What feels most important to you right now?"

	initMessage = "__init__"

	defaultChatName = "Session"
	defaultCallName = "Unnamed Session"

	callMaxTokens   = 500
	renameMaxTokens = 20
	renameTemp      = 0.6
)

type ChatServiceInterface interface {
	// ChatTurn runs one full-chat exchange. Completion failures come back
	// as the apology line, never as an error.
	ChatTurn(ctx context.Context, userID, sessionID, message, therapistName, language string) (string, string, error)

	// CallTurn runs one voice-call exchange with the repetition guard.
	CallTurn(ctx context.Context, userID, sessionID, message string) (string, error)

	// TrialReply answers a single trial message with no history.
	TrialReply(ctx context.Context, message, language string) string

	NameChatSession(ctx context.Context, message, language string) string
	NameCallSession(ctx context.Context, transcript []request_models.TranscriptLine) string

	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

type ChatService struct {
	conversations mem.ConversationStore
	completion    utils.CompletionClientInterface
	modelConfig   config.ModelConfig
}

func NewChatService(
	conversations mem.ConversationStore,
	completion utils.CompletionClientInterface,
	cfg *config.Config,
) ChatServiceInterface {
	return &ChatService{
		conversations: conversations,
		completion:    completion,
		modelConfig:   cfg.Model,
	}
}

func (s *ChatService) ChatTurn(ctx context.Context, userID, sessionID, message, therapistName, language string) (string, string, error) {
	if message == initMessage {
		return "", "New Session", nil
	}
	if therapistName == "" {
		therapistName = "Your Companion"
	}
	if language == "" {
		language = "en"
	}

	s.conversations.Append(userID, sessionID, db_models.Message{Role: "user", Content: message})

	systemPrompt := fmt.Sprintf(
		"You are %s, a supportive and emotionally intelligent companion. "+
			"Always respond ONLY in %s. "+
			"Do not translate or add English unless the selected language is English. "+
			"Adapt your tone and style to match the user's emotions.",
		therapistName, language,
	)

	prompt := append(
		[]db_models.Message{{Role: "system", Content: systemPrompt}},
		s.conversations.History(userID, sessionID)...,
	)

	reply, err := s.completion.Complete(ctx, prompt, s.modelConfig.Temperature, s.modelConfig.MaxTokens)
	if err != nil {
		log.Printf("Chat completion error: %v", err)
		reply = apologyLine
	}
	reply = strings.TrimSpace(reply)

	s.conversations.Append(userID, sessionID, db_models.Message{Role: "assistant", Content: reply})
	return reply, "", nil
}

func (s *ChatService) CallTurn(ctx context.Context, userID, sessionID, message string) (string, error) {
	if message != initMessage {
		s.conversations.Append(userID, sessionID, db_models.Message{Role: "user", Content: message})
	}

	systemPrompt := "You are a compassionate, emotionally intelligent therapist. " +
		"Always reply in fluent English. Keep responses short and empathetic."

	prompt := append(
		[]db_models.Message{{Role: "system", Content: systemPrompt}},
		s.conversations.History(userID, sessionID)...,
	)

	reply, err := s.completion.Complete(ctx, prompt, s.modelConfig.Temperature, callMaxTokens)
	if err != nil {
		log.Printf("Call completion error: %v", err)
		return "", utils.ErrCompletionFailed
	}
	reply = strings.TrimSpace(reply)

	// The call voice loops visibly when the model repeats itself.
	recent := s.conversations.RecentAssistant(userID, sessionID, 2)
	if len(recent) == 2 && recent[0] == reply && recent[1] == reply {
		reply = repetitionFallback
	}

	s.conversations.Append(userID, sessionID, db_models.Message{Role: "assistant", Content: reply})
	return reply, nil
}

func (s *ChatService) TrialReply(ctx context.Context, message, language string) string {
	if language == "" {
		language = "en"
	}

	systemPrompt := fmt.Sprintf(
		"You are a supportive, emotionally intelligent companion. "+
			"Always respond ONLY in %s. "+
			"Do not translate or add English unless the selected language is English. "+
			"Adapt your tone and style to the user's emotions.",
		language,
	)

	prompt := []db_models.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: message},
	}

	reply, err := s.completion.Complete(ctx, prompt, s.modelConfig.Temperature, s.modelConfig.MaxTokens)
	if err != nil {
		log.Printf("Trial chat completion error: %v", err)
		return apologyLine
	}
	return strings.TrimSpace(reply)
}

func (s *ChatService) NameChatSession(ctx context.Context, message, language string) string {
	if language == "" {
		language = "en"
	}

	prompt := []db_models.Message{
		{
			Role: "system",
			Content: fmt.Sprintf(
				"You are a helpful assistant. Generate a short, natural 2-4 word session title in %s. "+
					"If %s is not supported, return it in English. "+
					"Do NOT include quotes, punctuation, or explanations. Just the title.",
				language, language,
			),
		},
		{Role: "user", Content: message},
	}

	name, err := s.completion.Complete(ctx, prompt, renameTemp, renameMaxTokens)
	if err != nil {
		log.Printf("Chat rename error: %v", err)
		return defaultChatName
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultChatName
	}
	return name
}

func (s *ChatService) NameCallSession(ctx context.Context, transcript []request_models.TranscriptLine) string {
	var b strings.Builder
	b.WriteString(
		"You are an assistant that generates short, meaningful titles for therapy sessions. " +
			"Summarize the emotional focus or main theme of this therapy session in 2-4 words. " +
			"Use title case. Do not add quotes, explanations, or extra text.\n\n",
	)
	for _, line := range transcript {
		role := "Therapist"
		if line.Sender == "user" {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, line.Text)
	}

	prompt := []db_models.Message{{Role: "user", Content: b.String()}}

	name, err := s.completion.Complete(ctx, prompt, renameTemp, renameMaxTokens)
	if err != nil {
		log.Printf("Call rename error: %v", err)
		return defaultCallName
	}
	name = strings.TrimSpace(name)
	if idx := strings.IndexByte(name, '\n'); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return defaultCallName
	}
	return name
}

func (s *ChatService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	text, err := s.completion.Transcribe(ctx, filename, audio)
	if err != nil {
		log.Printf("Transcription error: %v", err)
		return "", utils.ErrCompletionFailed
	}
	return text, nil
}
