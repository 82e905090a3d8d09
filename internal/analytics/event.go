package analytics

import "time"

// Topics for the analytics event bus.
const (
	TopicURLCreated  = "url.created"
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted when a new mapping is created. Idempotent
// re-shortens of an existing URL do not emit it.
type URLCreatedEvent struct {
	EventID     string    `json:"event_id"`
	Code        string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	ClientIP    string    `json:"client_ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
}

// URLAccessedEvent is emitted on every successful redirect.
type URLAccessedEvent struct {
	EventID    string    `json:"event_id"`
	Code       string    `json:"short_code"`
	AccessedAt time.Time `json:"accessed_at"`
	ClientIP   string    `json:"client_ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Referrer   string    `json:"referrer,omitempty"`
}
