package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultChatMaxLen = 500

type ChatMessage struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	AvatarURL string    `json:"avatar_url"`
	SentAt    time.Time `json:"sent_at"`
}

func NewChatMessage(author UserProfile, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Author:    author.Name,
		Text:      text,
		AvatarURL: author.AvatarURL,
		SentAt:    time.Now(),
	}
}
