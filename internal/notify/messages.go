package notify

// Relay event types.
const (
	TypeChange = "change"
)

// Event is the envelope written to the relay for each notification.
type Event struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func eventFor(n Notification) Event {
	return Event{
		Type:      TypeChange,
		ID:        n.ID,
		Text:      n.Text,
		Timestamp: n.Timestamp.UnixMilli(),
		Width:     n.Width,
		Height:    n.Height,
	}
}
