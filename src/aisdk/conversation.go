package aisdk

// Conversation is an in-memory transcript sent to the model on each step.
type Conversation struct {
	Messages []*Message
}

// NewConversation starts a transcript, optionally with a system prompt.
func NewConversation(systemPrompt string) *Conversation {
	c := &Conversation{}
	if systemPrompt != "" {
		c.Append(&Message{Role: RoleSystem, Content: systemPrompt})
	}
	return c
}

// Append adds messages to the end of the transcript. Nil messages are skipped.
func (c *Conversation) Append(msgs ...*Message) {
	for _, m := range msgs {
		if m != nil {
			c.Messages = append(c.Messages, m)
		}
	}
}

// Len returns the number of messages in the transcript.
func (c *Conversation) Len() int {
	return len(c.Messages)
}
