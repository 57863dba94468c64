package chat

import "time"

// Conversation identifies one caller-owned transcript.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
