package analytics

import "time"

// Topics for analytics events.
const (
	TopicLinkCreated  = "link.created"
	TopicLinkAccessed = "link.accessed"
)

// LinkCreatedEvent is emitted when a URL is shortened.
type LinkCreatedEvent struct {
	Hash      string    `json:"hash"`
	Target    string    `json:"target"`
	Sponsor   string    `json:"sponsor,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// LinkAccessedEvent is emitted when a short link is resolved.
type LinkAccessedEvent struct {
	Hash       string    `json:"hash"`
	Target     string    `json:"target"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
	AccessedAt time.Time `json:"accessedAt"`
}
