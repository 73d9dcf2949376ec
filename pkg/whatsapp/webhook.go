package whatsapp

// WebhookPayload is the subset of the Cloud API notification we read.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From   string `json:"from"`
	ID     string `json:"id"`
	Type   string `json:"type"`
	Button *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button,omitempty"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply,omitempty"`
	} `json:"interactive,omitempty"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
}

type InboundReply struct {
	From      string
	MessageID string
	Payload   string
}

// Replies extracts the button payloads; plain text messages are ignored.
func (p WebhookPayload) Replies() []InboundReply {
	var out []InboundReply
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				payload := ""
				switch {
				case msg.Interactive != nil && msg.Interactive.ButtonReply != nil:
					payload = msg.Interactive.ButtonReply.ID
				case msg.Button != nil:
					payload = msg.Button.Payload
				}
				if payload == "" {
					continue
				}
				out = append(out, InboundReply{From: msg.From, MessageID: msg.ID, Payload: payload})
			}
		}
	}
	return out
}
