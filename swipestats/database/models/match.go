package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Match is one conversation thread. Ghosted is derived at copy time:
// matched but no message was ever exchanged.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID                string     `bun:"id,pk,type:text"`
	ProfileID         string     `bun:"profile_id,notnull,type:text"`
	Order             int        `bun:"match_order,notnull,default:0"`
	TotalMessageCount int        `bun:"total_message_count,notnull,default:0"`
	MatchedAt         *time.Time `bun:"matched_at"`
	LikedAt           *time.Time `bun:"liked_at"`
	LastActivityAt    *time.Time `bun:"last_activity_at"`
	Ghosted           bool       `bun:"ghosted,notnull,default:false"`

	Messages []*Message `bun:"rel:has-many,join:id=match_id"`
}

type MessageDirection string

const (
	DirectionSent     MessageDirection = "SENT"
	DirectionReceived MessageDirection = "RECEIVED"
)

type MessageType string

const (
	MessageTypeText    MessageType = "TEXT"
	MessageTypeGIF     MessageType = "GIF"
	MessageTypeGesture MessageType = "GESTURE"
	MessageTypeOther   MessageType = "OTHER"
)

type Message struct {
	bun.BaseModel `bun:"table:messages,alias:msg"`

	ID         string           `bun:"id,pk,type:text"`
	MatchID    string           `bun:"match_id,notnull,type:text"`
	ProfileID  string           `bun:"profile_id,notnull,type:text"`
	Direction  MessageDirection `bun:"direction,notnull,type:text"`
	SentAt     time.Time        `bun:"sent_at,notnull"`
	Type       MessageType      `bun:"type,notnull,type:text"`
	Content    string           `bun:"content,notnull,type:text,default:''"`
	ContentRef *string          `bun:"content_ref,type:text"`
}
