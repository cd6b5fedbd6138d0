// Package domain defines the chat models exchanged with the backend.
package domain

// ChatMeta is the summary of a chat returned by list_chats.
type ChatMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChatMessage is one question/answer pair of a chat history.
type ChatMessage struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatInfo is a chat with its ordered history.
type ChatInfo struct {
	Name     string        `json:"name"`
	Messages []ChatMessage `json:"messages"`
}

// DefaultUserName is the display name of a principal that never set one.
const DefaultUserName = "user"
