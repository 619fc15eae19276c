package legacy

import "time"

// Row types shared by both adapters. db tags drive pgx.RowToStructByName,
// bson tags drive cursor decoding.

type ProfileRef struct {
	TinderID  string    `db:"tinder_id" bson:"tinderId"`
	UserID    *string   `db:"user_id" bson:"userId"`
	CreatedAt time.Time `db:"created_at" bson:"createdAt"`
}

type Profile struct {
	TinderID            string      `db:"tinder_id" bson:"tinderId"`
	UserID              *string     `db:"user_id" bson:"userId"`
	CreateDate          Timestamp   `db:"create_date" bson:"createDate"`
	BirthDate           Timestamp   `db:"birth_date" bson:"birthDate"`
	FirstDayOnApp       Timestamp   `db:"first_day_on_app" bson:"firstDayOnApp"`
	LastDayOnApp        Timestamp   `db:"last_day_on_app" bson:"lastDayOnApp"`
	AgeAtUpload         *int        `db:"age_at_upload" bson:"ageAtUpload"`
	AgeAtLastUsage      *int        `db:"age_at_last_usage" bson:"ageAtLastUsage"`
	Gender              *string     `db:"gender" bson:"gender"`
	GenderFilter        *string     `db:"gender_filter" bson:"genderFilter"`
	InterestedIn        *string     `db:"interested_in" bson:"interestedIn"`
	AgeFilterMin        *int        `db:"age_filter_min" bson:"ageFilterMin"`
	AgeFilterMax        *int        `db:"age_filter_max" bson:"ageFilterMax"`
	City                RawDocument `db:"city" bson:"city"`
	Country             *string     `db:"country" bson:"country"`
	Bio                 *string     `db:"bio" bson:"bio"`
	Interests           RawDocument `db:"interests" bson:"interests"`
	DaysInProfilePeriod *int        `db:"days_in_profile_period" bson:"daysInProfilePeriod"`
	CreatedAt           time.Time   `db:"created_at" bson:"createdAt"`
}

type Job struct {
	ID               string  `db:"id" bson:"_id"`
	ProfileID        string  `db:"profile_id" bson:"tinderProfileId"`
	Title            *string `db:"title" bson:"title"`
	TitleDisplayed   *bool   `db:"title_displayed" bson:"titleDisplayed"`
	Company          *string `db:"company" bson:"companyName"`
	CompanyDisplayed *bool   `db:"company_displayed" bson:"companyDisplayed"`
}

type School struct {
	ID        string  `db:"id" bson:"_id"`
	ProfileID string  `db:"profile_id" bson:"tinderProfileId"`
	Name      *string `db:"name" bson:"name"`
	Displayed *bool   `db:"displayed" bson:"displayed"`
	Type      *string `db:"type" bson:"type"`
}

type Match struct {
	ID             string    `db:"id" bson:"_id"`
	ProfileID      *string   `db:"profile_id" bson:"tinderProfileId"`
	Order          *int      `db:"match_order" bson:"order"`
	TotalMessages  *int      `db:"total_messages" bson:"totalMessageCount"`
	MatchedAt      Timestamp `db:"matched_at" bson:"matchedAt"`
	LikedAt        Timestamp `db:"liked_at" bson:"likedAt"`
	LastActivityAt Timestamp `db:"last_activity_at" bson:"lastActivityDate"`
}

type Message struct {
	ID        string    `db:"id" bson:"_id"`
	MatchID   string    `db:"match_id" bson:"matchId"`
	ProfileID *string   `db:"profile_id" bson:"tinderProfileId"`
	Direction *string   `db:"direction" bson:"to"`
	SentDate  Timestamp `db:"sent_date" bson:"sentDate"`
	Type      *string   `db:"type" bson:"type"`
	Content   *string   `db:"content" bson:"content"`
	GifURL    *string   `db:"gif_url" bson:"gifUrl"`
}

type Media struct {
	ID        string  `db:"id" bson:"_id"`
	ProfileID string  `db:"profile_id" bson:"tinderProfileId"`
	Type      *string `db:"type" bson:"type"`
	URL       *string `db:"url" bson:"url"`
	Prompt    *string `db:"prompt" bson:"prompt"`
	FromSoMe  *bool   `db:"from_so_me" bson:"fromSoMe"`
}

type UsageDay struct {
	ProfileID                     string    `db:"profile_id" bson:"tinderProfileId"`
	DateStamp                     Timestamp `db:"date_stamp" bson:"dateStamp"`
	AppOpens                      int       `db:"app_opens" bson:"appOpens"`
	SwipeLikes                    int       `db:"swipe_likes" bson:"swipeLikes"`
	SwipeSuperLikes               int       `db:"swipe_super_likes" bson:"swipeSuperLikes"`
	SwipePasses                   int       `db:"swipe_passes" bson:"swipePasses"`
	Matches                       int       `db:"matches" bson:"matches"`
	MessagesSent                  int       `db:"messages_sent" bson:"messagesSent"`
	MessagesReceived              int       `db:"messages_received" bson:"messagesReceived"`
	DateIsMissingFromOriginalData bool      `db:"date_is_missing" bson:"dateIsMissingFromOriginalData"`
}

// Purchase rows predate profile ids; they only carry the two dates the
// canonical profile id is derived from.
type Purchase struct {
	ID          string    `db:"id" bson:"_id"`
	BirthDate   Timestamp `db:"birth_date" bson:"birthDate"`
	CreateDate  Timestamp `db:"create_date" bson:"createDate"`
	Product     *string   `db:"product" bson:"product"`
	AmountCents *int64    `db:"amount_cents" bson:"amountCents"`
	Currency    *string   `db:"currency" bson:"currency"`
	PurchasedAt Timestamp `db:"purchased_at" bson:"purchasedAt"`
}

type OriginalFile struct {
	ID        string      `db:"id" bson:"_id"`
	ProfileID string      `db:"profile_id" bson:"tinderProfileId"`
	File      RawDocument `db:"file" bson:"file"`
	CreatedAt time.Time   `db:"created_at" bson:"createdAt"`
}
