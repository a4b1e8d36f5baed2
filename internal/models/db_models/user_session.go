package db_models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation kinds. Trial variants are mirrored for logged-in users so the
// transcript survives signup; they never drive trial entitlement.
const (
	KindChat      = "chat"
	KindCall      = "call"
	KindTrialChat = "trial_chat"
	KindTrialCall = "trial_call"
)

// Message is a single conversation turn as stored in the Messages column and
// as sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserSession is a durable conversation record. (AccountID, SessionID, Kind)
// is unique; saves against an existing triple overwrite in place.
type UserSession struct {
	BaseModel
	AccountID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_account_session"`
	SessionID string         `gorm:"size:120;not null;uniqueIndex:uq_account_session"`
	Kind      string         `gorm:"size:20;not null;default:chat;uniqueIndex:uq_account_session"`
	Name      string         `gorm:"size:120;default:Session"`
	Messages  datatypes.JSON `gorm:"default:'[]'"`

	Account Account `gorm:"foreignKey:AccountID"`
}

func (s *UserSession) DecodeMessages() []Message {
	var msgs []Message
	if len(s.Messages) == 0 {
		return msgs
	}
	_ = json.Unmarshal(s.Messages, &msgs)
	return msgs
}

func (s *UserSession) EncodeMessages(msgs []Message) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	s.Messages = raw
	return nil
}
