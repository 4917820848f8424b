package chat

import "time"

// Fixed labels and texts shown in the transcript.
const (
	UserLabel = "คุณ"
	BotLabel  = "Chatbot"

	// ConnectionErrorText replaces the reply whenever a send fails for any reason.
	ConnectionErrorText = "เกิดข้อผิดพลาดในการเชื่อมต่อ"
)

// Role tells which side of the conversation produced a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one rendered transcript entry. Entries are never mutated once appended.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Role      Role      `json:"role"`
	Failed    bool      `json:"failed,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserMessage builds an outgoing entry under the fixed user label.
func UserMessage(text string) Message {
	return Message{Sender: UserLabel, Text: text, Role: RoleUser}
}

// BotMessage builds a reply entry under the fixed bot label.
func BotMessage(text string) Message {
	return Message{Sender: BotLabel, Text: text, Role: RoleBot}
}

// FailureMessage builds the single user-visible error entry.
func FailureMessage() Message {
	return Message{Sender: BotLabel, Text: ConnectionErrorText, Role: RoleBot, Failed: true}
}
