package core

// Update is the normalized inbound event from the chat transport. Exactly
// one of the fields is set; an Update with neither produces no response.
type Update struct {
	Query   *QueryEvent
	Message *MessageEvent
}

// QueryEvent is an inline-style query: raw text typed by the user, either a
// music service link or free-text search terms.
type QueryEvent struct {
	ID   string
	Text string
}

// MessageEvent is a direct chat message carrying any bot commands found in it.
type MessageEvent struct {
	ChatID   string
	Commands []Command
}

// Command is a single bot command parsed out of a message.
type Command struct {
	Name string
	Args string
}

// Response is the outbound answer handed back to the chat transport. At most
// one field is set; a nil Response means "send nothing".
type Response struct {
	Query   *QueryResponse
	Message *MessageResponse
}

// QueryResponse answers an inline query with presentable results. An empty
// Results slice is a legitimate answer, not an error.
type QueryResponse struct {
	ID      string
	Results []PresentableResult
}

// MessageResponse sends plain text to a chat.
type MessageResponse struct {
	ChatID string
	Text   string
}

// Button is one labeled link in a presentable result.
type Button struct {
	Label string
	URL   string
}

// Photo is the image-bearing body of a presentable result.
type Photo struct {
	URL     string
	Width   int
	Height  int
	Caption string
}

// PresentableResult is the display-ready packaging of one resolved item:
// a caption or text body plus one button per service link. ID is unique
// within the outgoing result set and intentionally not reproducible.
type PresentableResult struct {
	ID      string
	Title   string
	Buttons []Button
	Photo   *Photo // nil for text-only results
	Text    string // body when Photo is nil
}
