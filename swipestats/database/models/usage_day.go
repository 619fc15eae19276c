package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// UsageDay is one calendar day of raw activity for a profile.
// MissingFromOriginalData marks a synthetic placeholder row with no real
// measurement behind it; Active is only ever true for real days.
type UsageDay struct {
	bun.BaseModel `bun:"table:usage_days,alias:ud"`

	ID                      string    `bun:"id,pk,type:text"`
	ProfileID               string    `bun:"profile_id,notnull,type:text"`
	DateStamp               time.Time `bun:"date_stamp,notnull,type:date"`
	AppOpens                int       `bun:"app_opens,notnull,default:0"`
	SwipeLikes              int       `bun:"swipe_likes,notnull,default:0"`
	SwipeSuperLikes         int       `bun:"swipe_super_likes,notnull,default:0"`
	SwipePasses             int       `bun:"swipe_passes,notnull,default:0"`
	Matches                 int       `bun:"matches,notnull,default:0"`
	MessagesSent            int       `bun:"messages_sent,notnull,default:0"`
	MessagesReceived        int       `bun:"messages_received,notnull,default:0"`
	MissingFromOriginalData bool      `bun:"missing_from_original_data,notnull,default:false"`
	Active                  bool      `bun:"active,notnull,default:false"`
}

// UsageDayID builds the stable primary key of a usage day.
func UsageDayID(profileID string, day time.Time) string {
	return fmt.Sprintf("%s:%s", profileID, day.UTC().Format(time.DateOnly))
}
