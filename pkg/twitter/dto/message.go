package dto

// MessageEventDTO is a v1.1 direct message event. Ids and timestamps are
// strings on the wire.
type MessageEventDTO struct {
	Type             string            `json:"type"`
	ID               string            `json:"id"`
	CreatedTimestamp string            `json:"created_timestamp"`
	MessageCreate    *MessageCreateDTO `json:"message_create,omitempty"`
}

type MessageCreateDTO struct {
	Target struct {
		RecipientID string `json:"recipient_id"`
	} `json:"target"`
	SenderID    string `json:"sender_id,omitempty"`
	SourceAppID string `json:"source_app_id,omitempty"`
	MessageData struct {
		Text     string       `json:"text"`
		Entities *EntitiesDTO `json:"entities,omitempty"`
	} `json:"message_data"`
}

type AppDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MessageEventWithAppDTO is the persisted form of a message: the event plus
// the app that sent it, when known.
type MessageEventWithAppDTO struct {
	MessageEvent *MessageEventDTO `json:"event"`
	App          *AppDTO          `json:"app,omitempty"`
}

// MessageEventsDTO is the response of direct_messages/events/list.
type MessageEventsDTO struct {
	Events     []*MessageEventDTO `json:"events"`
	Apps       map[string]*AppDTO `json:"apps,omitempty"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// CreateMessageEventDTO wraps an event for direct_messages/events/new and is
// also the shape of its response.
type CreateMessageEventDTO struct {
	Event *MessageEventDTO `json:"event"`
}
