package domain

import "time"

// Direction tells who authored a transcript entry.
type Direction string

const (
	DirectionBot    Direction = "bot"
	DirectionUser   Direction = "user"
	DirectionSystem Direction = "system"
)

// EntryKind distinguishes plain text from media messages.
type EntryKind string

const (
	EntryText  EntryKind = "text"
	EntryMedia EntryKind = "media"
)

// TranscriptEntry is a single message in the chat log.
type TranscriptEntry struct {
	Direction Direction `json:"direction"`
	Kind      EntryKind `json:"kind"`
	Text      string    `json:"text,omitempty"`
	MediaURL  string    `json:"media_url,omitempty"`
	MediaKind MediaKind `json:"media_kind,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	NodeID    string    `json:"node_id,omitempty"`
	At        time.Time `json:"at"`
}
