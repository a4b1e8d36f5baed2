package services

import (
	"context"
	"time"

	"github.com/John17712/theralink-app/internal/config"
	"github.com/John17712/theralink-app/internal/models/response_models"
	mem "github.com/John17712/theralink-app/pkg/memcache"
	"github.com/John17712/theralink-app/pkg/utils"
)

type TrialServiceInterface interface {
	// Chat counts the message against the trial cap and answers it. Past
	// the cap it returns ErrTrialLimitReached without touching the model.
	Chat(ctx context.Context, clientID, message, language string) (string, error)

	// StartCall resumes an unexpired call for free, otherwise consumes a
	// slot. Zero slots left returns ErrNoTrialSessionsLeft with no state
	// change.
	StartCall(clientID string) (response_models.TrialCallStatus, error)

	Status(clientID string) response_models.TrialCallStatus
}

type TrialService struct {
	trials      mem.TrialStore
	chatService ChatServiceInterface
	trialConfig config.TrialConfig
	now         func() time.Time
}

func NewTrialService(trials mem.TrialStore, chatService ChatServiceInterface, cfg *config.Config) TrialServiceInterface {
	return &TrialService{
		trials:      trials,
		chatService: chatService,
		trialConfig: cfg.Trial,
		now:         time.Now,
	}
}

func (s *TrialService) Chat(ctx context.Context, clientID, message, language string) (string, error) {
	over := false
	s.trials.Update(clientID, s.trialConfig.CallMaxSessions, func(state *mem.TrialState) {
		if state.ChatCount >= s.trialConfig.ChatLimit {
			over = true
			return
		}
		state.ChatCount++
	})
	if over {
		return "", utils.ErrTrialLimitReached
	}

	return s.chatService.TrialReply(ctx, message, language), nil
}

func (s *TrialService) StartCall(clientID string) (response_models.TrialCallStatus, error) {
	limit := s.trialConfig.CallLimitSeconds
	now := s.now().Unix()

	var status response_models.TrialCallStatus
	var denied bool

	s.trials.Update(clientID, s.trialConfig.CallMaxSessions, func(state *mem.TrialState) {
		if state.CallStartedAt > 0 {
			elapsed := int(now - state.CallStartedAt)
			if elapsed < limit {
				// Active call still running, resume without spending a slot.
				status = response_models.TrialCallStatus{
					OK:           true,
					Remaining:    limit - elapsed,
					SessionsLeft: state.SessionsLeft,
				}
				return
			}
		}

		if state.SessionsLeft <= 0 {
			denied = true
			status = response_models.TrialCallStatus{Error: "no_sessions_left"}
			return
		}

		state.SessionsLeft--
		state.CallStartedAt = now
		status = response_models.TrialCallStatus{
			OK:           true,
			Remaining:    limit,
			SessionsLeft: state.SessionsLeft,
		}
	})

	if denied {
		return status, utils.ErrNoTrialSessionsLeft
	}
	return status, nil
}

func (s *TrialService) Status(clientID string) response_models.TrialCallStatus {
	limit := s.trialConfig.CallLimitSeconds
	now := s.now().Unix()

	var status response_models.TrialCallStatus
	s.trials.Update(clientID, s.trialConfig.CallMaxSessions, func(state *mem.TrialState) {
		remaining := limit
		if state.CallStartedAt > 0 {
			elapsed := int(now - state.CallStartedAt)
			remaining = limit - elapsed
			if remaining <= 0 {
				remaining = 0
				state.CallStartedAt = 0
			}
		}
		status = response_models.TrialCallStatus{
			OK:           true,
			Remaining:    remaining,
			SessionsLeft: state.SessionsLeft,
		}
	})
	return status
}
