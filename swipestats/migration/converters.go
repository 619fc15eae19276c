package migration

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swipestats/migrator/swipestats/database/models"
	"github.com/swipestats/migrator/swipestats/legacy"
	"github.com/swipestats/migrator/swipestats/services"
)

var (
	errMissing     = errors.New("required value missing")
	errUnparseable = errors.New("unrecognized date format")
)

var dateLayouts = []string{
	time.RFC3339,
	time.DateOnly,
	time.DateTime,
	"2006-01-02T15:04:05",
}

var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://swipestats.io/users"))

// parseTimestamp normalizes a legacy date to UTC. ok is false when the value
// is absent.
func parseTimestamp(ts legacy.Timestamp) (t time.Time, ok bool, err error) {
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	if !ts.IsText() {
		return ts.Time.UTC(), true, nil
	}

	text := strings.TrimSpace(ts.Text)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", errUnparseable, ts.Text)
}

func requiredTime(entity, key, field string, ts legacy.Timestamp) (time.Time, error) {
	t, ok, err := parseTimestamp(ts)
	if err != nil {
		return time.Time{}, &TransformError{Entity: entity, Key: key, Field: field, Err: err}
	}
	if !ok {
		return time.Time{}, &TransformError{Entity: entity, Key: key, Field: field, Err: errMissing}
	}
	return t, nil
}

func optionalTime(entity, key, field string, ts legacy.Timestamp) (*time.Time, error) {
	t, ok, err := parseTimestamp(ts)
	if err != nil {
		return nil, &TransformError{Entity: entity, Key: key, Field: field, Err: err}
	}
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ownerID returns the legacy owner key or a stable synthetic one.
func ownerID(profileID string, userID *string) string {
	if userID != nil && strings.TrimSpace(*userID) != "" {
		return strings.TrimSpace(*userID)
	}
	return uuid.NewSHA1(userNamespace, []byte(profileID)).String()
}

func normalizeGender(v *string) models.Gender {
	if v == nil {
		return models.GenderUnknown
	}
	switch strings.ToLower(strings.TrimSpace(*v)) {
	case "":
		return models.GenderUnknown
	case "m", "male", "man", "men", "0":
		return models.GenderMale
	case "f", "female", "woman", "women", "1":
		return models.GenderFemale
	case "u", "unknown":
		return models.GenderUnknown
	default:
		// everyone, both, non-binary and anything newer
		return models.GenderOther
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

type cityDocument struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

func decodeCity(doc legacy.RawDocument) (name, region *string, err error) {
	if doc.IsEmpty() {
		return nil, nil, nil
	}
	var c cityDocument
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, nil, err
	}
	return trimmed(&c.Name), trimmed(&c.Region), nil
}

// decodeInterests accepts ["a","b"] and [{"name":"a"}] shapes.
func decodeInterests(doc legacy.RawDocument) ([]string, error) {
	if doc.IsEmpty() {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var named struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &named); err != nil {
			return nil, err
		}
		if n := strings.TrimSpace(named.Name); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

func convertUser(id string, now time.Time) *models.User {
	return &models.User{ID: id, Synthetic: true, CreatedAt: now}
}

func convertProfile(p legacy.Profile, now time.Time) (*models.Profile, error) {
	const entity = EntityProfiles
	key := p.TinderID
	if strings.TrimSpace(key) == "" {
		return nil, &TransformError{Entity: entity, Field: "tinderId", Err: errMissing}
	}

	createDate, err := requiredTime(entity, key, "createDate", p.CreateDate)
	if err != nil {
		return nil, err
	}
	birthDate, err := requiredTime(entity, key, "birthDate", p.BirthDate)
	if err != nil {
		return nil, err
	}
	firstDay, err := requiredTime(entity, key, "firstDayOnApp", p.FirstDayOnApp)
	if err != nil {
		return nil, err
	}
	lastDay, err := requiredTime(entity, key, "lastDayOnApp", p.LastDayOnApp)
	if err != nil {
		return nil, err
	}

	city, region, err := decodeCity(p.City)
	if err != nil {
		return nil, &TransformError{Entity: entity, Key: key, Field: "city", Err: err}
	}
	interests, err := decodeInterests(p.Interests)
	if err != nil {
		return nil, &TransformError{Entity: entity, Key: key, Field: "interests", Err: err}
	}

	days := 0
	if p.DaysInProfilePeriod != nil {
		days = *p.DaysInProfilePeriod
	} else if !lastDay.Before(firstDay) {
		days = int(truncateDay(lastDay).Sub(truncateDay(firstDay)).Hours()/24) + 1
	}

	return &models.Profile{
		ID:                  key,
		UserID:              ownerID(key, p.UserID),
		Gender:              normalizeGender(p.Gender),
		GenderFilter:        normalizeGender(p.GenderFilter),
		InterestedIn:        normalizeGender(p.InterestedIn),
		AgeAtUpload:         p.AgeAtUpload,
		AgeAtLastUsage:      p.AgeAtLastUsage,
		AgeFilterMin:        p.AgeFilterMin,
		AgeFilterMax:        p.AgeFilterMax,
		City:                city,
		Region:              region,
		Country:             trimmed(p.Country),
		Bio:                 p.Bio,
		Interests:           interests,
		BirthDate:           birthDate,
		CreateDate:          createDate,
		FirstDayOnApp:       firstDay,
		LastDayOnApp:        lastDay,
		DaysInProfilePeriod: days,
		LegacyCreatedAt:     p.CreatedAt.UTC(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func convertJob(j legacy.Job) (*models.Job, error) {
	if j.ID == "" {
		return nil, &TransformError{Entity: EntityJobs, Key: j.ProfileID, Field: "id", Err: errMissing}
	}
	return &models.Job{
		ID:               j.ID,
		ProfileID:        j.ProfileID,
		Title:            trimmed(j.Title),
		TitleDisplayed:   boolOr(j.TitleDisplayed, false),
		Company:          trimmed(j.Company),
		CompanyDisplayed: boolOr(j.CompanyDisplayed, false),
	}, nil
}

func convertSchool(s legacy.School) (*models.School, error) {
	if s.ID == "" {
		return nil, &TransformError{Entity: EntitySchools, Key: s.ProfileID, Field: "id", Err: errMissing}
	}

	schoolType := models.SchoolTypeUnknown
	switch strings.ToLower(strings.TrimSpace(deref(s.Type))) {
	case "high_school", "highschool", "high school", "hs":
		schoolType = models.SchoolTypeHighSchool
	case "university", "college", "uni":
		schoolType = models.SchoolTypeUniversity
	}

	return &models.School{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		Name:      strings.TrimSpace(deref(s.Name)),
		Displayed: boolOr(s.Displayed, false),
		Type:      schoolType,
	}, nil
}

// convertMatch expects a match whose profile reference was already checked.
func convertMatch(m legacy.Match) (*models.Match, error) {
	const entity = EntityMatches
	if m.ProfileID == nil || *m.ProfileID == "" {
		return nil, &TransformError{Entity: entity, Key: m.ID, Field: "tinderProfileId", Err: errMissing}
	}

	matchedAt, err := optionalTime(entity, m.ID, "matchedAt", m.MatchedAt)
	if err != nil {
		return nil, err
	}
	likedAt, err := optionalTime(entity, m.ID, "likedAt", m.LikedAt)
	if err != nil {
		return nil, err
	}
	lastActivity, err := optionalTime(entity, m.ID, "lastActivityDate", m.LastActivityAt)
	if err != nil {
		return nil, err
	}

	total := 0
	if m.TotalMessages != nil {
		if *m.TotalMessages < 0 {
			return nil, &TransformError{Entity: entity, Key: m.ID, Field: "totalMessageCount",
				Err: fmt.Errorf("negative count %d", *m.TotalMessages)}
		}
		total = *m.TotalMessages
	}
	order := 0
	if m.Order != nil {
		order = *m.Order
	}

	return &models.Match{
		ID:                m.ID,
		ProfileID:         *m.ProfileID,
		Order:             order,
		TotalMessageCount: total,
		MatchedAt:         matchedAt,
		LikedAt:           likedAt,
		LastActivityAt:    lastActivity,
		Ghosted:           total == 0,
	}, nil
}

func normalizeDirection(v *string) (models.MessageDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(deref(v))) {
	case "sent", "outgoing", "me", "from_me", "0":
		return models.DirectionSent, true
	case "received", "incoming", "match", "to_me", "1":
		return models.DirectionReceived, true
	}
	return "", false
}

// convertMessage takes the owning profile from the already migrated match.
func convertMessage(msg legacy.Message, matchProfile map[string]string) (*models.Message, error) {
	const entity = EntityMessages

	profileID, ok := matchProfile[msg.MatchID]
	if !ok {
		return nil, &TransformError{Entity: entity, Key: msg.ID, Field: "matchId",
			Err: fmt.Errorf("match %s was not migrated", msg.MatchID)}
	}

	direction, ok := normalizeDirection(msg.Direction)
	if !ok {
		return nil, &TransformError{Entity: entity, Key: msg.ID, Field: "to",
			Err: fmt.Errorf("unknown direction %q", deref(msg.Direction))}
	}

	sentAt, err := requiredTime(entity, msg.ID, "sentDate", msg.SentDate)
	if err != nil {
		return nil, err
	}

	gif := trimmed(msg.GifURL)
	msgType := models.MessageTypeText
	switch strings.ToLower(strings.TrimSpace(deref(msg.Type))) {
	case "", "text":
		if gif != nil {
			msgType = models.MessageTypeGIF
		}
	case "gif":
		msgType = models.MessageTypeGIF
	case "gesture", "reaction":
		msgType = models.MessageTypeGesture
	default:
		msgType = models.MessageTypeOther
	}

	return &models.Message{
		ID:         msg.ID,
		MatchID:    msg.MatchID,
		ProfileID:  profileID,
		Direction:  direction,
		SentAt:     sentAt,
		Type:       msgType,
		Content:    deref(msg.Content),
		ContentRef: gif,
	}, nil
}

func convertMedia(m legacy.Media) (*models.Media, error) {
	url := trimmed(m.URL)
	if url == nil {
		return nil, &TransformError{Entity: EntityMedia, Key: m.ID, Field: "url", Err: errMissing}
	}

	mediaType := models.MediaTypePhoto
	if strings.EqualFold(strings.TrimSpace(deref(m.Type)), "video") {
		mediaType = models.MediaTypeVideo
	}

	return &models.Media{
		ID:              m.ID,
		ProfileID:       m.ProfileID,
		Type:            mediaType,
		URL:             *url,
		Prompt:          trimmed(m.Prompt),
		FromSocialMedia: boolOr(m.FromSoMe, false),
	}, nil
}

// convertUsageDay keeps the missing flag as-is. A flagged row is a
// placeholder, so it is never active regardless of its counters.
func convertUsageDay(u legacy.UsageDay) (*models.UsageDay, error) {
	const entity = EntityUsageDays

	day, err := requiredTime(entity, u.ProfileID, "dateStamp", u.DateStamp)
	if err != nil {
		return nil, err
	}
	day = truncateDay(day)

	for field, v := range map[string]int{
		"appOpens": u.AppOpens, "swipeLikes": u.SwipeLikes, "swipeSuperLikes": u.SwipeSuperLikes,
		"swipePasses": u.SwipePasses, "matches": u.Matches,
		"messagesSent": u.MessagesSent, "messagesReceived": u.MessagesReceived,
	} {
		if v < 0 {
			return nil, &TransformError{Entity: entity, Key: models.UsageDayID(u.ProfileID, day), Field: field,
				Err: fmt.Errorf("negative counter %d", v)}
		}
	}

	return &models.UsageDay{
		ID:                      models.UsageDayID(u.ProfileID, day),
		ProfileID:               u.ProfileID,
		DateStamp:               day,
		AppOpens:                u.AppOpens,
		SwipeLikes:              u.SwipeLikes,
		SwipeSuperLikes:         u.SwipeSuperLikes,
		SwipePasses:             u.SwipePasses,
		Matches:                 u.Matches,
		MessagesSent:            u.MessagesSent,
		MessagesReceived:        u.MessagesReceived,
		MissingFromOriginalData: u.DateIsMissingFromOriginalData,
		Active:                  u.AppOpens > 0 && !u.DateIsMissingFromOriginalData,
	}, nil
}

// convertPurchase resolves the profile through the canonical id; the caller
// decides whether that profile exists.
func convertPurchase(p legacy.Purchase) (*models.Purchase, error) {
	const entity = EntityPurchases

	birth, err := requiredTime(entity, p.ID, "birthDate", p.BirthDate)
	if err != nil {
		return nil, err
	}
	create, err := requiredTime(entity, p.ID, "createDate", p.CreateDate)
	if err != nil {
		return nil, err
	}
	purchasedAt, err := optionalTime(entity, p.ID, "purchasedAt", p.PurchasedAt)
	if err != nil {
		return nil, err
	}
	if purchasedAt == nil {
		purchasedAt = &create
	}

	var amount int64
	if p.AmountCents != nil {
		amount = *p.AmountCents
	}
	currency := "USD"
	if c := trimmed(p.Currency); c != nil {
		currency = strings.ToUpper(*c)
	}
	product := "unknown"
	if pr := trimmed(p.Product); pr != nil {
		product = *pr
	}

	return &models.Purchase{
		ID:          p.ID,
		ProfileID:   services.CanonicalProfileID(birth, create),
		Product:     product,
		AmountCents: amount,
		Currency:    currency,
		PurchasedAt: *purchasedAt,
	}, nil
}
