package domain

import (
	"encoding/json"
	"strings"
)

// MessageSender identifies who produced a transcript message
type MessageSender string

const (
	SenderUser      MessageSender = "user"
	SenderAssistant MessageSender = "assistant"
)

// Message is a single transcript entry
type Message struct {
	Sender      MessageSender `json:"sender"`
	Text        string        `json:"text"`
	Attachments []string      `json:"attachments,omitempty"`
	Welcome     bool          `json:"welcome,omitempty"`
}

// Transcript is the ordered message history of a session plus an optional
// whiteboard payload. Stored as JSONB.
type Transcript struct {
	Messages   []Message       `json:"messages"`
	Whiteboard json.RawMessage `json:"whiteboard,omitempty"`
}

// IsEmpty reports whether the transcript carries no messages at all
func (t *Transcript) IsEmpty() bool {
	return t == nil || len(t.Messages) == 0
}

// HasRealMessages reports whether at least one non-welcome user message
// exists. A session holding only the synthetic welcome message has not been
// used for learning.
func (t *Transcript) HasRealMessages() bool {
	if t == nil {
		return false
	}
	for _, m := range t.Messages {
		if m.Sender == SenderUser && !m.Welcome {
			return true
		}
	}
	return false
}

// UserMessages returns the non-welcome user messages in order
func (t *Transcript) UserMessages() []Message {
	if t == nil {
		return nil
	}
	var out []Message
	for _, m := range t.Messages {
		if m.Sender == SenderUser && !m.Welcome {
			out = append(out, m)
		}
	}
	return out
}

// UserText concatenates the non-welcome user utterances, newline-separated
func (t *Transcript) UserText() string {
	msgs := t.UserMessages()
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) != "" {
			parts = append(parts, m.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// AttachmentURLs collects every attachment reference across all messages
func (t *Transcript) AttachmentURLs() []string {
	if t == nil {
		return nil
	}
	var urls []string
	for _, m := range t.Messages {
		urls = append(urls, m.Attachments...)
	}
	return urls
}

// PhotoUploadCount counts user messages that carry an embedded image or a
// whiteboard marker
func (t *Transcript) PhotoUploadCount() int {
	if t == nil {
		return 0
	}
	count := 0
	for _, m := range t.Messages {
		if m.Sender != SenderUser {
			continue
		}
		if len(m.Attachments) > 0 || strings.Contains(m.Text, "[whiteboard]") {
			count++
		}
	}
	return count
}
