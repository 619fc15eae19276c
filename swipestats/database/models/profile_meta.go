package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ProfileMeta holds the aggregates computed from a profile's real usage days
// and its matches. There is at most one row per profile.
type ProfileMeta struct {
	bun.BaseModel `bun:"table:profile_meta,alias:pm"`

	ID        string `bun:"id,pk,type:text"`
	ProfileID string `bun:"profile_id,notnull,unique,type:text"`

	From         *time.Time `bun:"from_date"`
	To           *time.Time `bun:"to_date"`
	DaysInPeriod int        `bun:"days_in_period,notnull,default:0"`
	DaysActive   int        `bun:"days_active,notnull,default:0"`

	SwipeLikesTotal       int `bun:"swipe_likes_total,notnull,default:0"`
	SwipeSuperLikesTotal  int `bun:"swipe_super_likes_total,notnull,default:0"`
	SwipePassesTotal      int `bun:"swipe_passes_total,notnull,default:0"`
	MatchesTotal          int `bun:"matches_total,notnull,default:0"`
	MessagesSentTotal     int `bun:"messages_sent_total,notnull,default:0"`
	MessagesReceivedTotal int `bun:"messages_received_total,notnull,default:0"`
	AppOpensTotal         int `bun:"app_opens_total,notnull,default:0"`

	LikeRate     float64 `bun:"like_rate,notnull,default:0"`
	MatchRate    float64 `bun:"match_rate,notnull,default:0"`
	SwipesPerDay float64 `bun:"swipes_per_day,notnull,default:0"`

	ConversationCount         int `bun:"conversation_count,notnull,default:0"`
	ConversationsWithMessages int `bun:"conversations_with_messages,notnull,default:0"`
	GhostedCount              int `bun:"ghosted_count,notnull,default:0"`

	ComputedAt time.Time `bun:"computed_at,notnull"`
}
