package domain

// ChatRole is the role tag of a message in the completion API wire format.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of the message list sent to the completion
// provider. Ephemeral: built per request, never persisted by the gateway.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// SenderUser is the sender tag the front-end uses for the human side of the
// conversation. Any other sender maps to the assistant role.
const SenderUser = "user"

// ChatTurn is one turn of a widget conversation as the client stores it.
type ChatTurn struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp,omitzero"`
}
