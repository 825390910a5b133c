package chat

// Role identifies the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered message history of one session.
// Messages are immutable once appended; the sequence only grows.
type Transcript struct {
	msgs []Message
}

// NewTranscript returns a transcript seeded with the provided messages.
func NewTranscript(seed ...Message) *Transcript {
	t := &Transcript{}
	t.msgs = append(t.msgs, seed...)
	return t
}

// Append adds one message to the end of the transcript.
func (t *Transcript) Append(role Role, content string) {
	t.msgs = append(t.msgs, Message{Role: role, Content: content})
}

// Len returns the number of messages appended so far.
func (t *Transcript) Len() int { return len(t.msgs) }

// Messages returns a copy of the message sequence so callers cannot
// mutate session state through the returned slice.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}
