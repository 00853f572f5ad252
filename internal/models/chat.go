package models

import "github.com/google/uuid"

// Chat message types.
const (
	ChatTypeSystem = "system"
	ChatTypePlayer = "player"
)

// ChatMessagePart is a styled fragment of a chat message.
type ChatMessagePart struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`
}

// ChatMessage is a rich chat line made of styled parts.
type ChatMessage struct {
	ID     string            `json:"id"`
	Type   string            `json:"type"`
	Sender string            `json:"sender,omitempty"`
	Parts  []ChatMessagePart `json:"parts"`
}

// ChatMessageBuilder assembles a ChatMessage part by part.
type ChatMessageBuilder struct {
	msg ChatMessage
}

// NewChatMessage starts a builder for the given message type.
func NewChatMessage(msgType string) *ChatMessageBuilder {
	return &ChatMessageBuilder{msg: ChatMessage{ID: uuid.NewString(), Type: msgType}}
}

// Sender sets the sending player's nickname.
func (b *ChatMessageBuilder) Sender(nickname string) *ChatMessageBuilder {
	b.msg.Sender = nickname
	return b
}

// Text appends a plain fragment.
func (b *ChatMessageBuilder) Text(text string) *ChatMessageBuilder {
	b.msg.Parts = append(b.msg.Parts, ChatMessagePart{Text: text})
	return b
}

// Bold appends a bold fragment.
func (b *ChatMessageBuilder) Bold(text string) *ChatMessageBuilder {
	b.msg.Parts = append(b.msg.Parts, ChatMessagePart{Text: text, Bold: true})
	return b
}

// Colored appends a colored fragment.
func (b *ChatMessageBuilder) Colored(text, color string) *ChatMessageBuilder {
	b.msg.Parts = append(b.msg.Parts, ChatMessagePart{Text: text, Color: color})
	return b
}

// Part appends a fully specified fragment.
func (b *ChatMessageBuilder) Part(part ChatMessagePart) *ChatMessageBuilder {
	b.msg.Parts = append(b.msg.Parts, part)
	return b
}

// Build returns the assembled message.
func (b *ChatMessageBuilder) Build() ChatMessage {
	return b.msg
}
