package discord

// Embed is a Discord rich embed. Only the subset of the embed object this
// pipeline produces is modeled.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
}

// EmbedField is one labeled value inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter is the small text line at the bottom of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// EmbedImage references an image shown inside the embed. For uploaded
// files the URL uses the attachment:// scheme.
type EmbedImage struct {
	URL string `json:"url"`
}

// WebhookPayload is the body posted to a webhook. ThreadName creates a new
// forum thread for the notification.
type WebhookPayload struct {
	ThreadName string  `json:"thread_name,omitempty"`
	Embeds     []Embed `json:"embeds"`
}
