package metadata

import (
	"time"

	"github.com/google/uuid"
	"github.com/swipestats/migrator/swipestats/database/models"
)

var metaNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://swipestats.io/profile-meta"))

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Compute aggregates one profile. Days flagged missing from the original data
// are placeholders and take no part in any total, window or rate.
func Compute(profileID string, days []*models.UsageDay, matches []*models.Match, now time.Time) *models.ProfileMeta {
	meta := &models.ProfileMeta{
		ID:         uuid.NewSHA1(metaNamespace, []byte(profileID)).String(),
		ProfileID:  profileID,
		ComputedAt: now,
	}

	for _, d := range days {
		if d.MissingFromOriginalData {
			continue
		}

		day := d.DateStamp
		if meta.From == nil || day.Before(*meta.From) {
			meta.From = &day
		}
		if meta.To == nil || day.After(*meta.To) {
			meta.To = &day
		}

		meta.DaysInPeriod++
		if d.AppOpens > 0 {
			meta.DaysActive++
		}

		meta.SwipeLikesTotal += d.SwipeLikes
		meta.SwipeSuperLikesTotal += d.SwipeSuperLikes
		meta.SwipePassesTotal += d.SwipePasses
		meta.MatchesTotal += d.Matches
		meta.MessagesSentTotal += d.MessagesSent
		meta.MessagesReceivedTotal += d.MessagesReceived
		meta.AppOpensTotal += d.AppOpens
	}

	swipes := meta.SwipeLikesTotal + meta.SwipePassesTotal
	meta.LikeRate = ratio(meta.SwipeLikesTotal, swipes)
	meta.MatchRate = ratio(meta.MatchesTotal, meta.SwipeLikesTotal)
	meta.SwipesPerDay = ratio(swipes, meta.DaysActive)

	meta.ConversationCount = len(matches)
	for _, m := range matches {
		if m.TotalMessageCount > 0 {
			meta.ConversationsWithMessages++
		} else {
			meta.GhostedCount++
		}
	}

	return meta
}
