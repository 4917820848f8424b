package chat

import "time"

// Session identifies one run of the widget, used to correlate log lines.
type Session struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	CreatedAt time.Time `json:"createdAt"`
}
